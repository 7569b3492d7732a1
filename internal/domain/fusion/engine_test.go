package fusion

import (
	"strings"
	"testing"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

func TestCombineTextOnlyIsNotDiluted(t *testing.T) {
	e := NewEngine()

	got := e.Combine(map[string]Signal{
		"text": {Emotion: analysis.EmotionAnger, RiskLevel: analysis.RiskHigh, Confidence: 0.8},
	})

	// A single high signal should stay high after weight normalization.
	if got.RiskLevel != analysis.RiskHigh {
		t.Errorf("risk level = %v, want HIGH", got.RiskLevel)
	}
	if got.RiskScore != 0.75 {
		t.Errorf("risk score = %v, want 0.75", got.RiskScore)
	}
	if got.DominantEmotion != analysis.EmotionAnger {
		t.Errorf("dominant emotion = %v", got.DominantEmotion)
	}
}

func TestCombineWeightsModalities(t *testing.T) {
	e := NewEngine()

	got := e.Combine(map[string]Signal{
		"text":  {Emotion: analysis.EmotionAnger, RiskLevel: analysis.RiskCritical, Confidence: 0.9},
		"voice": {Emotion: analysis.EmotionAnger, RiskLevel: analysis.RiskMedium, Tone: "Neutral"},
		"face":  {Emotion: analysis.EmotionAnger, RiskLevel: analysis.RiskMedium, Confidence: 0.6},
	})

	// (.95*.40 + .50*.30 + .50*.30) = 0.68
	if got.RiskScore != 0.68 {
		t.Errorf("risk score = %v, want 0.68", got.RiskScore)
	}
	if got.RiskLevel != analysis.RiskMedium {
		t.Errorf("risk level = %v, want MEDIUM", got.RiskLevel)
	}
	if got.SignalConflict {
		t.Error("uniform anger signals should not conflict")
	}
	if !strings.Contains(got.Explanation, "voice tone is Neutral") {
		t.Errorf("explanation = %q", got.Explanation)
	}
}

func TestCombineDetectsConflict(t *testing.T) {
	e := NewEngine()

	got := e.Combine(map[string]Signal{
		"text": {Emotion: analysis.EmotionJoy, RiskLevel: analysis.RiskLow, Confidence: 0.9},
		"face": {Emotion: analysis.EmotionSadness, RiskLevel: analysis.RiskMedium, Confidence: 0.7},
	})
	if !got.SignalConflict {
		t.Error("joy + sadness should flag a conflict")
	}

	foundHint := false
	for _, rec := range got.Recommendations {
		if strings.Contains(rec, "Mixed signals") {
			foundHint = true
		}
	}
	if !foundHint {
		t.Error("conflict should add a mixed-signals recommendation")
	}
}

func TestCombineHighVoiceStressRecommendation(t *testing.T) {
	e := NewEngine()

	got := e.Combine(map[string]Signal{
		"voice": {Emotion: analysis.EmotionAnger, RiskLevel: analysis.RiskHigh, Tone: "Angry", StressLevel: 0.8},
	})

	found := false
	for _, rec := range got.Recommendations {
		if strings.Contains(rec, "vocal stress") {
			found = true
		}
	}
	if !found {
		t.Error("stress above 0.7 should add a vocal-stress recommendation")
	}
}

func TestCombineEmptySignals(t *testing.T) {
	e := NewEngine()

	got := e.Combine(map[string]Signal{})
	if got.RiskLevel != analysis.RiskLow {
		t.Errorf("risk level = %v, want LOW", got.RiskLevel)
	}
	if got.DominantEmotion != analysis.EmotionNeutral {
		t.Errorf("dominant emotion = %v, want neutral", got.DominantEmotion)
	}
}

func TestDetectEscalation(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name    string
		history []analysis.RiskLevel
		want    string
	}{
		{"too short", []analysis.RiskLevel{analysis.RiskLow, analysis.RiskHigh}, "insufficient_data"},
		{"monotonic up", []analysis.RiskLevel{analysis.RiskLow, analysis.RiskMedium, analysis.RiskHigh}, "escalating"},
		{"monotonic down", []analysis.RiskLevel{analysis.RiskHigh, analysis.RiskMedium, analysis.RiskLow}, "improving"},
		{"flat counts as escalating", []analysis.RiskLevel{analysis.RiskMedium, analysis.RiskMedium, analysis.RiskMedium}, "escalating"},
		{"zigzag", []analysis.RiskLevel{analysis.RiskLow, analysis.RiskHigh, analysis.RiskLow}, "stable"},
		{
			"only last five count",
			[]analysis.RiskLevel{
				analysis.RiskCritical,
				analysis.RiskLow, analysis.RiskLow, analysis.RiskMedium, analysis.RiskHigh, analysis.RiskCritical,
			},
			"escalating",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := e.DetectEscalation(c.history)
			if got.Trend != c.want {
				t.Errorf("trend = %q, want %q", got.Trend, c.want)
			}
		})
	}
}

func TestDetectEscalationFlatHistoryFlags(t *testing.T) {
	e := NewEngine()

	got := e.DetectEscalation([]analysis.RiskLevel{
		analysis.RiskMedium, analysis.RiskMedium, analysis.RiskMedium,
	})

	// Equal scores satisfy both monotonic checks; the escalating read wins.
	if got.Trend != "escalating" {
		t.Errorf("trend = %q, want escalating", got.Trend)
	}
	if !got.IsEscalating {
		t.Error("flat history should set IsEscalating")
	}
	if !got.IsImproving {
		t.Error("flat history is also non-increasing, IsImproving should be set")
	}
}
