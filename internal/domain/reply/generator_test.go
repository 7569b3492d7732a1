package reply

import (
	"strings"
	"testing"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

func TestGenerateReturnsRankedReplies(t *testing.T) {
	g := NewGenerator()

	replies := g.Generate(analysis.EmotionAnger)
	if len(replies) == 0 {
		t.Fatal("expected replies for anger")
	}
	if len(replies) > 5 {
		t.Errorf("got %d replies, max is 5", len(replies))
	}

	// Ranking is stable and empathy-first, so the top reply should carry
	// an empathy marker.
	top := strings.ToLower(replies[0])
	if !strings.Contains(top, "sorry") && !strings.Contains(top, "i can see") && !strings.Contains(top, "understand") {
		t.Errorf("top reply %q lacks an empathy marker", replies[0])
	}
}

func TestGenerateUnknownMoodFallsBack(t *testing.T) {
	g := NewGenerator()

	unknown := g.Generate(analysis.Emotion("confused"))
	neutral := g.Generate(analysis.EmotionNeutral)
	if len(unknown) != len(neutral) {
		t.Fatalf("unknown mood got %d replies, neutral has %d", len(unknown), len(neutral))
	}
}

func TestGenerateFiltersToxicCandidates(t *testing.T) {
	g := NewGenerator()

	for _, mood := range []analysis.Emotion{
		analysis.EmotionAnger, analysis.EmotionSadness, analysis.EmotionJoy,
		analysis.EmotionSarcastic, analysis.EmotionPassiveAggressive,
	} {
		for _, r := range g.Generate(mood) {
			if g.isToxic(r) {
				t.Errorf("mood %s produced toxic reply %q", mood, r)
			}
		}
	}
}

func TestRankPrefersEmpathy(t *testing.T) {
	ranked := rank([]string{
		"Noted.",
		"I'm sorry, tell me what happened?",
		"What time is it?",
	})
	if ranked[0] != "I'm sorry, tell me what happened?" {
		t.Errorf("rank top = %q", ranked[0])
	}
	if ranked[len(ranked)-1] != "Noted." {
		t.Errorf("rank bottom = %q", ranked[len(ranked)-1])
	}
}
