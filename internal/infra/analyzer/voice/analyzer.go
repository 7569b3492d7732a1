package voice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// Analyzer extracts prosodic features from a WAV recording and maps them
// onto a tone, a stress level and an emotion. No model call is involved:
// the classification is a threshold table over pitch, volume and rate.
type Analyzer struct {
	Thresholds analysis.Thresholds
}

func NewAnalyzer(t analysis.Thresholds) *Analyzer {
	return &Analyzer{Thresholds: t}
}

func (a *Analyzer) AnalyzeVoice(ctx context.Context, audio []byte) (*analysis.VoiceResult, error) {
	samples, sampleRate, err := decodeWAV(audio)
	if err != nil {
		return nil, fmt.Errorf("decoding audio: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty audio stream: %w", analysis.ErrInvalidInput)
	}

	features := extractFeatures(samples, sampleRate)
	tone := classifyTone(features)
	stress := stressLevel(features)
	emotion := inferEmotion(tone, stress)
	risk := a.riskLevel(emotion, stress, features)

	return &analysis.VoiceResult{
		Tone:           tone,
		Emotion:        emotion,
		StressLevel:    round3(stress),
		RiskLevel:      risk,
		Features:       features,
		Interpretation: interpret(tone, emotion, stress),
	}, nil
}

// decodeWAV returns mono float64 samples in [-1,1] and the sample rate.
func decodeWAV(data []byte) ([]float64, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file: %w", analysis.ErrInvalidInput)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("no pcm data: %w", analysis.ErrInvalidInput)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	return downmix(buf, bitDepth), buf.Format.SampleRate, nil
}

// downmix folds interleaved channels into mono float64 samples in [-1,1].
func downmix(buf *audio.IntBuffer, bitDepth int) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}

// classifyTone applies the feature-level decision table.
func classifyTone(f analysis.VoiceFeatures) string {
	pitch := f.Pitch.Level
	volume := f.Volume.Level
	rate := f.SpeechRate.Level

	switch {
	case pitch == "high" && volume == "loud" && rate == "fast":
		return "Excited/Agitated"
	case pitch == "high" && volume == "loud":
		return "Angry"
	case pitch == "low" && volume == "soft":
		return "Sad/Calm"
	case rate == "fast":
		return "Anxious/Excited"
	case rate == "slow":
		return "Calm/Tired"
	default:
		return "Neutral"
	}
}

// stressLevel scores vocal stress on a 0..1 scale.
func stressLevel(f analysis.VoiceFeatures) float64 {
	score := 0.0
	if f.Pitch.Level == "high" {
		score += 0.3
	}
	if f.Volume.Level == "loud" {
		score += 0.25
	}
	if f.SpeechRate.Level == "fast" {
		score += 0.25
	}
	if f.Pitch.Std > 50 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func inferEmotion(tone string, stress float64) analysis.Emotion {
	switch {
	case tone == "Angry" || tone == "Excited/Agitated":
		return analysis.EmotionAnger
	case tone == "Sad/Calm":
		return analysis.EmotionSadness
	case tone == "Anxious/Excited" && stress > 0.6:
		return analysis.EmotionFear
	case tone == "Anxious/Excited" && stress < 0.5:
		return analysis.EmotionJoy
	default:
		return analysis.EmotionNeutral
	}
}

func (a *Analyzer) riskLevel(emotion analysis.Emotion, stress float64, f analysis.VoiceFeatures) analysis.RiskLevel {
	score := 0.0
	if emotion == analysis.EmotionAnger || emotion == analysis.EmotionFear {
		score += 0.5
	}
	score += stress * 0.3
	if f.Volume.Level == "loud" {
		score += 0.2
	}
	return analysis.LevelFromScore(score, a.Thresholds)
}

func interpret(tone string, emotion analysis.Emotion, stress float64) string {
	desc := "low"
	if stress > 0.6 {
		desc = "high"
	} else if stress > 0.3 {
		desc = "moderate"
	}
	return fmt.Sprintf("Voice tone indicates %s with %s stress level. Overall tone classified as: %s.",
		emotion, desc, tone)
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
