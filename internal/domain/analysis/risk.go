package analysis

// RiskLevel enum
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Thresholds are the score cutoffs used to bucket a risk score into a level.
type Thresholds struct {
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	Critical float64 `yaml:"critical"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 0.5, High: 0.7, Critical: 0.85}
}

// Score maps a level back to a representative numeric score, used by the
// fusion engine when combining signals.
func (r RiskLevel) Score() float64 {
	switch r {
	case RiskCritical:
		return 0.95
	case RiskHigh:
		return 0.75
	case RiskMedium:
		return 0.5
	default:
		return 0.2
	}
}

// LevelFromScore buckets a 0..1 risk score into a level.
func LevelFromScore(score float64, t Thresholds) RiskLevel {
	switch {
	case score >= t.Critical:
		return RiskCritical
	case score >= t.High:
		return RiskHigh
	case score >= t.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// TextRisk scores a text analysis from its component signals.
// High-risk emotions weigh 0.6, medium-risk 0.4, everything else 0.1;
// confident sarcasm and negative sentiment each add up to 0.2.
func TextRisk(emotion Emotion, emotionScore, sarcasmScore float64, sentiment string, sentimentScore float64, t Thresholds) RiskLevel {
	score := 0.0

	switch emotion {
	case EmotionAnger, EmotionDisgust, EmotionFear:
		score += 0.6 * emotionScore
	case EmotionSadness, EmotionPassiveAggressive, EmotionSarcastic:
		score += 0.4 * emotionScore
	default:
		score += 0.1 * emotionScore
	}

	if sarcasmScore > 0.7 {
		score += 0.2
	}
	if sentiment == "negative" {
		score += 0.2 * sentimentScore
	}

	return LevelFromScore(score, t)
}

// TextConfidence blends the component confidences of a text analysis.
func TextConfidence(emotionScore, sarcasmScore, sentimentScore float64) float64 {
	return emotionScore*0.5 + sarcasmScore*0.25 + sentimentScore*0.25
}
