package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// makeWAV builds a 16-bit mono PCM file containing a sine wave.
func makeWAV(t *testing.T, freqHz float64, amplitude float64, seconds float64, sampleRate int) []byte {
	t.Helper()

	n := int(seconds * float64(sampleRate))
	samples := make([]int16, n)
	for i := range samples {
		v := amplitude * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))
		samples[i] = int16(v * 32767)
	}

	var data bytes.Buffer
	dataSize := uint32(len(samples) * 2)

	data.WriteString("RIFF")
	binary.Write(&data, binary.LittleEndian, uint32(36+dataSize))
	data.WriteString("WAVE")

	data.WriteString("fmt ")
	binary.Write(&data, binary.LittleEndian, uint32(16))
	binary.Write(&data, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&data, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&data, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&data, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&data, binary.LittleEndian, uint16(2))
	binary.Write(&data, binary.LittleEndian, uint16(16))

	data.WriteString("data")
	binary.Write(&data, binary.LittleEndian, dataSize)
	binary.Write(&data, binary.LittleEndian, samples)

	return data.Bytes()
}

func TestAnalyzeVoiceRejectsGarbage(t *testing.T) {
	a := NewAnalyzer(analysis.DefaultThresholds())

	_, err := a.AnalyzeVoice(context.Background(), []byte("definitely not audio"))
	if !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeVoiceCalmTone(t *testing.T) {
	a := NewAnalyzer(analysis.DefaultThresholds())
	audio := makeWAV(t, 200, 0.08, 1.0, 16000)

	res, err := a.AnalyzeVoice(context.Background(), audio)
	if err != nil {
		t.Fatal(err)
	}

	if res.Features.Pitch.Mean < 150 || res.Features.Pitch.Mean > 250 {
		t.Errorf("pitch mean = %v, want ~200", res.Features.Pitch.Mean)
	}
	if res.Features.Volume.Level != "normal" {
		t.Errorf("volume level = %q, want normal", res.Features.Volume.Level)
	}
	if res.Tone != "Calm/Tired" {
		t.Errorf("tone = %q, want Calm/Tired", res.Tone)
	}
	if res.RiskLevel != analysis.RiskLow {
		t.Errorf("risk level = %v, want LOW", res.RiskLevel)
	}
	if res.Interpretation == "" {
		t.Error("expected an interpretation")
	}
}

func TestAnalyzeVoiceAngryTone(t *testing.T) {
	a := NewAnalyzer(analysis.DefaultThresholds())
	audio := makeWAV(t, 320, 0.25, 1.0, 16000)

	res, err := a.AnalyzeVoice(context.Background(), audio)
	if err != nil {
		t.Fatal(err)
	}

	if res.Features.Pitch.Level != "high" {
		t.Errorf("pitch level = %q, want high", res.Features.Pitch.Level)
	}
	if res.Features.Volume.Level != "loud" {
		t.Errorf("volume level = %q, want loud", res.Features.Volume.Level)
	}
	if res.Tone != "Angry" {
		t.Errorf("tone = %q, want Angry", res.Tone)
	}
	if res.Emotion != analysis.EmotionAnger {
		t.Errorf("emotion = %v, want anger", res.Emotion)
	}
	if res.StressLevel <= 0.5 {
		t.Errorf("stress level = %v, want > 0.5", res.StressLevel)
	}
	if res.RiskLevel == analysis.RiskLow {
		t.Errorf("risk level = %v, expected elevated risk", res.RiskLevel)
	}
}

func TestDownmixStereo(t *testing.T) {
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 16000},
		Data:   []int{16384, -16384, 8192, 8192},
	}

	samples := downmix(buf, 16)
	if len(samples) != 2 {
		t.Fatalf("frames = %d, want 2", len(samples))
	}
	if samples[0] != 0 {
		t.Errorf("frame 0 = %v, want 0 (channels cancel)", samples[0])
	}
	if samples[1] != 0.25 {
		t.Errorf("frame 1 = %v, want 0.25", samples[1])
	}
}

func TestFramePitchFindsFundamental(t *testing.T) {
	sampleRate := 16000
	frame := make([]float64, frameSize)
	for i := range frame {
		frame[i] = 0.5 * math.Sin(2*math.Pi*250*float64(i)/float64(sampleRate))
	}

	f0 := framePitch(frame, sampleRate)
	if f0 < 240 || f0 > 260 {
		t.Errorf("framePitch = %v, want ~250", f0)
	}
}

func TestFramePitchUnvoicedSilence(t *testing.T) {
	frame := make([]float64, frameSize)
	if f0 := framePitch(frame, 16000); f0 != 0 {
		t.Errorf("framePitch(silence) = %v, want 0", f0)
	}
}

func TestCategorize(t *testing.T) {
	if got := categorizePitch(300); got != "high" {
		t.Errorf("categorizePitch(300) = %q", got)
	}
	if got := categorizePitch(200); got != "normal" {
		t.Errorf("categorizePitch(200) = %q", got)
	}
	if got := categorizePitch(100); got != "low" {
		t.Errorf("categorizePitch(100) = %q", got)
	}

	if got := categorizeVolume(0.2); got != "loud" {
		t.Errorf("categorizeVolume(0.2) = %q", got)
	}
	if got := categorizeVolume(0.07); got != "normal" {
		t.Errorf("categorizeVolume(0.07) = %q", got)
	}
	if got := categorizeVolume(0.01); got != "soft" {
		t.Errorf("categorizeVolume(0.01) = %q", got)
	}

	if got := categorizeSpeechRate(0.2); got != "fast" {
		t.Errorf("categorizeSpeechRate(0.2) = %q", got)
	}
	if got := categorizeSpeechRate(0.02); got != "slow" {
		t.Errorf("categorizeSpeechRate(0.02) = %q", got)
	}

	if got := categorizeEnergy(2500); got != "high" {
		t.Errorf("categorizeEnergy(2500) = %q", got)
	}
	if got := categorizeEnergy(500); got != "low" {
		t.Errorf("categorizeEnergy(500) = %q", got)
	}
}

func TestClassifyToneTable(t *testing.T) {
	cases := []struct {
		pitch, volume, rate string
		want                string
	}{
		{"high", "loud", "fast", "Excited/Agitated"},
		{"high", "loud", "slow", "Angry"},
		{"low", "soft", "normal", "Sad/Calm"},
		{"normal", "normal", "fast", "Anxious/Excited"},
		{"normal", "normal", "slow", "Calm/Tired"},
		{"normal", "normal", "normal", "Neutral"},
	}
	for _, c := range cases {
		f := analysis.VoiceFeatures{
			Pitch:      analysis.FeatureStat{Level: c.pitch},
			Volume:     analysis.FeatureStat{Level: c.volume},
			SpeechRate: analysis.FeatureStat{Level: c.rate},
		}
		if got := classifyTone(f); got != c.want {
			t.Errorf("classifyTone(%s/%s/%s) = %q, want %q", c.pitch, c.volume, c.rate, got, c.want)
		}
	}
}
