package reply

import (
	"regexp"
	"sort"
	"strings"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

const maxReplies = 5

// Generator produces safe reply suggestions for a detected mood.
type Generator struct {
	templates map[string][]string
	toxic     []*regexp.Regexp
}

func NewGenerator() *Generator {
	return &Generator{templates: buildTemplates(), toxic: buildToxicPatterns()}
}

// Generate returns up to five ranked reply suggestions for the mood.
// Unknown moods fall back to the neutral templates.
func (g *Generator) Generate(mood analysis.Emotion) []string {
	candidates, ok := g.templates[strings.ToLower(string(mood))]
	if !ok {
		candidates = g.templates["neutral"]
	}

	safe := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !g.isToxic(c) {
			safe = append(safe, c)
		}
	}

	ranked := rank(safe)
	if len(ranked) > maxReplies {
		ranked = ranked[:maxReplies]
	}
	return ranked
}

func (g *Generator) isToxic(s string) bool {
	lower := strings.ToLower(s)
	for _, re := range g.toxic {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// rank orders replies empathy-first: apologies and validation before
// questions, questions before plain statements. Stable so template
// order breaks ties.
func rank(replies []string) []string {
	scored := make([]struct {
		text  string
		score int
	}, len(replies))
	for i, r := range replies {
		scored[i].text = r
		scored[i].score = empathyScore(r)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.text
	}
	return out
}

func empathyScore(reply string) int {
	lower := strings.ToLower(reply)
	score := 0
	for _, marker := range []string{"i'm sorry", "i understand", "i'm here", "i can see", "i hear"} {
		if strings.Contains(lower, marker) {
			score += 2
		}
	}
	for _, marker := range []string{"tell me", "let's", "together", "listen"} {
		if strings.Contains(lower, marker) {
			score++
		}
	}
	if strings.Contains(reply, "?") {
		score++
	}
	return score
}

func buildToxicPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`\b(shut up|stupid|idiot|dumb|hate you|don't care)\b`),
		regexp.MustCompile(`\b(whatever|fine|okay)\b$`),
		regexp.MustCompile(`\b(your fault|blame you|always|never)\b`),
	}
}

func buildTemplates() map[string][]string {
	return map[string][]string{
		"anger": {
			"I'm sorry if I made you feel this way. Can we talk about what's bothering you?",
			"I can see you're upset. I want to understand your perspective.",
			"You're right to be frustrated. Let me listen to what you have to say.",
			"I didn't mean to upset you. Help me understand so I can do better.",
			"Let's take a step back. What can I do to make this right?",
		},
		"sadness": {
			"I'm here for you. Do you want to talk about it?",
			"I can see you're going through something. I'm here to listen.",
			"Is there anything I can do to help or support you?",
			"You don't have to go through this alone. I'm here.",
			"Take all the time you need. I'm not going anywhere.",
		},
		"passive-aggressive": {
			"I feel like something is bothering you. Can we talk about it openly?",
			"I sense there might be more to this. I'm ready to listen.",
			"If something's wrong, I'd rather you tell me directly. I want to understand.",
			"Let's be honest with each other. What's really going on?",
			"I care about how you feel. Please tell me what's on your mind.",
		},
		"sarcastic": {
			"I can tell you're frustrated. Let's talk about what's really bothering you.",
			"I hear the frustration in your message. I'm listening.",
			"Let's address the real issue here. I want to understand.",
			"I know something's bothering you. Can we talk about it seriously?",
			"Your feelings matter to me. Let's have an honest conversation.",
		},
		"joy": {
			"That's amazing! I'm so happy for you! Tell me more!",
			"This is wonderful news! I'm thrilled!",
			"You deserve this! I'm so proud of you!",
			"This made my day! Let's celebrate!",
			"I love seeing you this happy! This is fantastic!",
		},
		"fear": {
			"I understand you're worried. Let's figure this out together.",
			"Your concerns are valid. I'm here to help.",
			"We'll get through this together. You're not alone.",
			"Let's talk about what's worrying you. I'm here to support you.",
			"It's okay to be scared. Let me help you feel safer.",
		},
		"disgust": {
			"I understand this bothers you. Let's talk about it.",
			"I respect how you feel about this. What can I do?",
			"Your reaction is completely valid. How can I help?",
			"I see this really bothers you. Let's address it.",
			"I hear you. What would make this better for you?",
		},
		"surprise": {
			"I can see this caught you off guard. How are you feeling about it?",
			"Take your time to process. I'm here when you're ready to talk.",
			"That's quite unexpected! What do you think about it?",
			"I understand this is a lot to take in. Let's talk about it.",
			"How are you feeling about this surprise?",
		},
		"neutral": {
			"I hear you. What would you like to talk about?",
			"Thanks for sharing. What's on your mind?",
			"I'm listening. Tell me more.",
			"I appreciate you telling me this.",
			"What else is going on?",
		},
	}
}
