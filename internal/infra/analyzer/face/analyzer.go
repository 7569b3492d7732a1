package face

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/moodsense-ai/moodsense/internal/domain/ai"
	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// Analyzer classifies facial expression with a hosted vision model. When the
// model is not configured or the call fails, it degrades to a fallback result
// instead of failing the request.
type Analyzer struct {
	Model      ai.Client
	Thresholds analysis.Thresholds
}

func NewAnalyzer(model ai.Client, t analysis.Thresholds) *Analyzer {
	return &Analyzer{Model: model, Thresholds: t}
}

// Emotion labels as vision models name them, mapped to ours.
var emotionMap = map[string]analysis.Emotion{
	"angry":    analysis.EmotionAnger,
	"anger":    analysis.EmotionAnger,
	"disgust":  analysis.EmotionDisgust,
	"fear":     analysis.EmotionFear,
	"happy":    analysis.EmotionJoy,
	"joy":      analysis.EmotionJoy,
	"sad":      analysis.EmotionSadness,
	"sadness":  analysis.EmotionSadness,
	"surprise": analysis.EmotionSurprise,
	"neutral":  analysis.EmotionNeutral,
}

func (a *Analyzer) AnalyzeFace(ctx context.Context, img []byte) (*analysis.FaceResult, error) {
	mime, err := sniffImage(img)
	if err != nil {
		return nil, err
	}

	if a.Model == nil {
		return fallbackResult(), nil
	}

	scores, err := a.Model.ClassifyImage(ctx, img, mime)
	if err != nil {
		log.Warn().Err(err).Msg("vision model unavailable, using fallback result")
		return fallbackResult(), nil
	}

	if !scores.FaceDetected {
		return &analysis.FaceResult{
			FaceDetected: false,
			Emotion:      analysis.EmotionNeutral,
			Confidence:   0.0,
			RiskLevel:    analysis.RiskLow,
			Message:      "No face detected",
		}, nil
	}

	emotion, confidence := dominant(scores.Emotions)
	detailed := make(map[string]float64, len(scores.Emotions))
	for label, score := range scores.Emotions {
		detailed[string(mapEmotion(label))] = round3(score)
	}

	facesCount := scores.FacesCount
	if facesCount == 0 {
		facesCount = 1
	}

	return &analysis.FaceResult{
		FaceDetected:     true,
		Emotion:          emotion,
		Confidence:       round3(confidence),
		RiskLevel:        a.riskLevel(emotion, confidence),
		DetailedEmotions: detailed,
		FacesCount:       facesCount,
	}, nil
}

// sniffImage validates the payload decodes as an image and returns its mime type.
func sniffImage(img []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return "", fmt.Errorf("invalid image file: %w", analysis.ErrInvalidInput)
	}
	return "image/" + format, nil
}

// fallbackResult mirrors the degraded path: face assumed present, neutral
// emotion, middling confidence.
func fallbackResult() *analysis.FaceResult {
	return &analysis.FaceResult{
		FaceDetected:     true,
		Emotion:          analysis.EmotionNeutral,
		Confidence:       0.5,
		RiskLevel:        analysis.RiskLow,
		DetailedEmotions: map[string]float64{"neutral": 1.0},
		FacesCount:       1,
		Message:          "Face detected, but advanced analysis unavailable.",
	}
}

func dominant(emotions map[string]float64) (analysis.Emotion, float64) {
	type pair struct {
		label string
		score float64
	}
	pairs := make([]pair, 0, len(emotions))
	for k, v := range emotions {
		pairs = append(pairs, pair{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].label < pairs[j].label
	})
	if len(pairs) == 0 {
		return analysis.EmotionNeutral, 0.5
	}
	return mapEmotion(pairs[0].label), pairs[0].score
}

func mapEmotion(label string) analysis.Emotion {
	if e, ok := emotionMap[label]; ok {
		return e
	}
	return analysis.EmotionNeutral
}

func (a *Analyzer) riskLevel(emotion analysis.Emotion, confidence float64) analysis.RiskLevel {
	score := 0.0
	switch emotion {
	case analysis.EmotionAnger, analysis.EmotionFear, analysis.EmotionDisgust:
		score = 0.6 * confidence
	case analysis.EmotionSadness:
		score = 0.4 * confidence
	default:
		score = 0.1 * confidence
	}
	return analysis.LevelFromScore(score, a.Thresholds)
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
