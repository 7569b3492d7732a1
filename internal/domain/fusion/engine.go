package fusion

import (
	"fmt"
	"strings"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// Signal is one modality's contribution to a combined assessment.
type Signal struct {
	Emotion     analysis.Emotion   `json:"emotion"`
	RiskLevel   analysis.RiskLevel `json:"risk_level"`
	Confidence  float64            `json:"confidence,omitempty"`
	Tone        string             `json:"tone,omitempty"`
	StressLevel float64            `json:"stress_level,omitempty"`
}

// Assessment is the result of fusing the available signals.
type Assessment struct {
	RiskLevel       analysis.RiskLevel `json:"risk_level"`
	RiskScore       float64            `json:"risk_score"`
	Confidence      float64            `json:"confidence"`
	DominantEmotion analysis.Emotion   `json:"dominant_emotion"`
	Signals         map[string]Signal  `json:"signals"`
	SignalConflict  bool               `json:"signal_conflict"`
	Recommendations []string           `json:"recommendations"`
	Explanation     string             `json:"explanation"`
}

// Trend describes how risk evolved over recent analyses.
type Trend struct {
	Trend        string    `json:"trend"`
	IsEscalating bool      `json:"is_escalating"`
	IsImproving  bool      `json:"is_improving,omitempty"`
	RecentScores []float64 `json:"recent_scores,omitempty"`
}

// Engine combines per-modality risk signals into one assessment.
// Text carries the most weight; voice and face split the rest.
type Engine struct {
	weights map[string]float64
}

func NewEngine() *Engine {
	return &Engine{weights: map[string]float64{
		"text":  0.40,
		"voice": 0.30,
		"face":  0.30,
	}}
}

// Combine fuses the present signals into a weighted risk assessment.
// The score is normalized by the total weight of the signals that are
// actually present, so a text-only assessment is not diluted.
func (e *Engine) Combine(signals map[string]Signal) Assessment {
	var weighted, totalWeight float64
	for source, sig := range signals {
		w, ok := e.weights[source]
		if !ok {
			continue
		}
		weighted += sig.RiskLevel.Score() * w
		totalWeight += w
	}

	score := 0.0
	if totalWeight > 0 {
		score = weighted / totalWeight
	}

	level := analysis.LevelFromScore(score, analysis.DefaultThresholds())
	conflict := detectConflict(signals)

	return Assessment{
		RiskLevel:       level,
		RiskScore:       round3(score),
		Confidence:      combinedConfidence(signals),
		DominantEmotion: dominantEmotion(signals),
		Signals:         signals,
		SignalConflict:  conflict,
		Recommendations: recommendations(level, signals, conflict),
		Explanation:     explanation(signals, level),
	}
}

// DetectEscalation reports the risk trend over a chronological history.
// Fewer than three points is not enough to call a trend.
func (e *Engine) DetectEscalation(history []analysis.RiskLevel) Trend {
	if len(history) < 3 {
		return Trend{Trend: "insufficient_data"}
	}

	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	scores := make([]float64, len(recent))
	for i, lvl := range recent {
		scores[i] = lvl.Score()
	}

	escalating, improving := true, true
	for i := 0; i < len(scores)-1; i++ {
		if scores[i] > scores[i+1] {
			escalating = false
		}
		if scores[i] < scores[i+1] {
			improving = false
		}
	}

	// A flat streak counts as escalating, not stable: sustained risk at
	// the same level is no improvement.
	trend := "stable"
	if escalating {
		trend = "escalating"
	} else if improving {
		trend = "improving"
	}

	return Trend{
		Trend:        trend,
		IsEscalating: escalating,
		IsImproving:  improving,
		RecentScores: scores,
	}
}

func detectConflict(signals map[string]Signal) bool {
	positive := map[analysis.Emotion]bool{analysis.EmotionJoy: true, analysis.EmotionSurprise: true}
	negative := map[analysis.Emotion]bool{
		analysis.EmotionAnger:   true,
		analysis.EmotionSadness: true,
		analysis.EmotionFear:    true,
		analysis.EmotionDisgust: true,
	}

	var hasPositive, hasNegative bool
	for _, sig := range signals {
		if positive[sig.Emotion] {
			hasPositive = true
		}
		if negative[sig.Emotion] {
			hasNegative = true
		}
	}
	return hasPositive && hasNegative
}

func dominantEmotion(signals map[string]Signal) analysis.Emotion {
	counts := map[analysis.Emotion]int{}
	for _, sig := range signals {
		counts[sig.Emotion]++
	}
	if len(counts) == 0 {
		return analysis.EmotionNeutral
	}

	best := analysis.EmotionNeutral
	bestCount := 0
	for emotion, n := range counts {
		if n > bestCount || (n == bestCount && emotion < best) {
			best, bestCount = emotion, n
		}
	}
	return best
}

func combinedConfidence(signals map[string]Signal) float64 {
	var sum float64
	var n int
	for source, sig := range signals {
		if source == "voice" {
			// Voice has no classifier confidence; use a fixed prior.
			sum += 0.7
		} else {
			sum += sig.Confidence
		}
		n++
	}
	if n == 0 {
		return 0.5
	}
	return round3(sum / float64(n))
}

func recommendations(level analysis.RiskLevel, signals map[string]Signal, conflict bool) []string {
	var recs []string
	switch level {
	case analysis.RiskCritical:
		recs = []string{
			"Immediate attention required",
			"Pause the conversation immediately",
			"Take responsibility if you contributed to this",
			"Focus entirely on listening and understanding",
			"Avoid being defensive at all costs",
			"Consider suggesting a break if emotions are too high",
		}
	case analysis.RiskHigh:
		recs = []string{
			"De-escalation needed",
			"Stop arguing or defending your position",
			"Listen actively without interrupting",
			"Acknowledge their feelings sincerely",
			"Apologize if appropriate",
		}
	case analysis.RiskMedium:
		recs = []string{
			"Be mindful of your communication",
			"Pay attention to tone and word choice",
			"Show empathy and understanding",
			"Ask clarifying questions",
		}
	default:
		recs = []string{
			"Continue communicating normally",
			"Stay present and engaged",
			"Monitor for subtle emotional shifts",
		}
	}

	if conflict {
		recs = append(recs, "Mixed signals detected - pay extra attention to subtle cues")
	}
	if v, ok := signals["voice"]; ok && v.StressLevel > 0.7 {
		recs = append(recs, "High vocal stress detected - consider calming your own tone")
	}
	return recs
}

func explanation(signals map[string]Signal, level analysis.RiskLevel) string {
	var parts []string
	if s, ok := signals["text"]; ok {
		parts = append(parts, fmt.Sprintf("text shows %s", s.Emotion))
	}
	if s, ok := signals["voice"]; ok {
		parts = append(parts, fmt.Sprintf("voice tone is %s", s.Tone))
	}
	if s, ok := signals["face"]; ok {
		parts = append(parts, fmt.Sprintf("facial expression indicates %s", s.Emotion))
	}

	summary := "limited data available"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Overall risk level is %s. %s.", level, capitalize(summary))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
