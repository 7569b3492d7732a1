package text

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/moodsense-ai/moodsense/internal/domain/ai"
	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// Analyzer classifies a text message into an emotion, a sarcasm flag and a
// sentiment, then derives risk and confidence. When a hosted model client is
// configured it is tried first; on any failure the built-in lexicon takes
// over so a request never fails because the model is unreachable.
type Analyzer struct {
	Model      ai.Client
	Thresholds analysis.Thresholds
}

func NewAnalyzer(model ai.Client, t analysis.Thresholds) *Analyzer {
	return &Analyzer{Model: model, Thresholds: t}
}

func (a *Analyzer) AnalyzeText(ctx context.Context, message string) (*analysis.TextResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, analysis.ErrEmptyMessage
	}

	scores, ok := a.modelScores(ctx, message)
	if !ok {
		scores = lexiconScores(message)
	}

	return a.resolve(message, scores), nil
}

func (a *Analyzer) modelScores(ctx context.Context, message string) (ai.TextScores, bool) {
	if a.Model == nil {
		return ai.TextScores{}, false
	}
	scores, err := a.Model.ClassifyText(ctx, message)
	if err != nil {
		log.Warn().Err(err).Msg("text model unavailable, falling back to lexicon")
		return ai.TextScores{}, false
	}
	if len(scores.Emotions) == 0 {
		return ai.TextScores{}, false
	}
	return scores, true
}

// resolve turns raw classifier scores into the final result: the sarcasm and
// passive-aggressive overrides are applied before risk is computed.
func (a *Analyzer) resolve(message string, scores ai.TextScores) *analysis.TextResult {
	emotion, emotionScore := topEmotion(scores.Emotions)

	isSarcastic := scores.Sarcasm > 0.5
	sarcasmConfidence := scores.Sarcasm
	if !isSarcastic {
		sarcasmConfidence = 1 - scores.Sarcasm
	}

	primary := emotion
	if isSarcastic {
		primary = analysis.EmotionSarcastic
	}
	if detectPassiveAggressive(message, emotion) {
		primary = analysis.EmotionPassiveAggressive
	}

	risk := analysis.TextRisk(primary, emotionScore, sarcasmConfidence,
		scores.Sentiment, scores.SentimentScore, a.Thresholds)
	confidence := analysis.TextConfidence(emotionScore, sarcasmConfidence, scores.SentimentScore)

	breakdown := make(map[string]float64, len(scores.Emotions))
	for k, v := range scores.Emotions {
		breakdown[k] = round3(v)
	}

	return &analysis.TextResult{
		Emotion:           primary,
		RiskLevel:         risk,
		Confidence:        round3(confidence),
		EmotionBreakdown:  breakdown,
		IsSarcastic:       isSarcastic,
		SarcasmConfidence: round3(sarcasmConfidence),
		Sentiment:         scores.Sentiment,
		SentimentScore:    round3(scores.SentimentScore),
	}
}

func topEmotion(emotions map[string]float64) (analysis.Emotion, float64) {
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
		return analysis.EmotionNeutral, 0.6
	}
	return analysis.Emotion(pairs[0].label), pairs[0].score
}

// detectPassiveAggressive flags short dismissive replies and "fine" words
// paired with a negative underlying emotion.
func detectPassiveAggressive(message string, emotion analysis.Emotion) bool {
	lower := strings.ToLower(message)

	patterns := []string{
		"fine", "whatever", "sure", "okay", "if you say so",
		"do whatever you want", "i'm fine", "no worries", "it's fine",
		"doesn't matter", "up to you", "your choice", "your call",
	}
	hasPattern := false
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			hasPattern = true
			break
		}
	}
	if !hasPattern {
		return false
	}

	words := len(strings.Fields(message))
	shortDismissive := words <= 5
	negativeEmotion := emotion == analysis.EmotionAnger ||
		emotion == analysis.EmotionSadness ||
		emotion == analysis.EmotionDisgust
	emphaticPeriod := words <= 3 && strings.HasSuffix(strings.TrimSpace(message), ".")

	return shortDismissive || negativeEmotion || emphaticPeriod
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
