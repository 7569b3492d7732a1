package text

import (
	"strings"
	"unicode"

	"github.com/moodsense-ai/moodsense/internal/domain/ai"
)

// Keyword lexicons for the offline classifier. Deliberately small: this
// path only has to be sensible when the hosted model is unavailable.
var emotionLexicon = map[string][]string{
	"anger": {
		"angry", "furious", "mad", "hate", "pissed", "annoyed", "annoying",
		"irritated", "rage", "outraged", "fed up", "sick of", "unbelievable",
	},
	"sadness": {
		"sad", "unhappy", "depressed", "miserable", "crying", "cried", "lonely",
		"heartbroken", "hopeless", "miss you", "hurt", "devastated",
	},
	"fear": {
		"afraid", "scared", "worried", "anxious", "terrified", "nervous",
		"panic", "frightened", "dread",
	},
	"joy": {
		"happy", "glad", "great", "awesome", "wonderful", "excited", "love",
		"fantastic", "amazing", "delighted", "thrilled", "proud",
	},
	"disgust": {
		"disgusting", "gross", "revolting", "nasty", "awful", "repulsive",
		"sickening",
	},
	"surprise": {
		"surprised", "shocked", "unexpected", "can't believe", "cannot believe",
		"no way", "wow",
	},
}

var sarcasmCues = []string{
	"yeah right", "oh great", "oh wonderful", "sure you did", "as if",
	"how original", "good for you", "nice going", "well done genius",
	"thanks a lot", "just perfect", "totally fine", "/s",
}

var negativeWords = []string{
	"no", "not", "never", "bad", "worst", "terrible", "horrible", "awful",
	"hate", "angry", "sad", "wrong", "problem", "annoying", "stupid",
}

var positiveWords = []string{
	"yes", "good", "great", "best", "love", "happy", "wonderful", "thanks",
	"thank you", "awesome", "nice", "amazing", "perfect",
}

// lexiconScores classifies a message with keyword counts only.
func lexiconScores(message string) ai.TextScores {
	norm := normalize(message)

	counts := map[string]int{}
	total := 0
	for emotion, words := range emotionLexicon {
		for _, w := range words {
			if hasCue(norm, w) {
				counts[emotion]++
				total++
			}
		}
	}

	emotions := map[string]float64{}
	if total == 0 {
		emotions["neutral"] = 0.6
	} else {
		for emotion, n := range counts {
			emotions[emotion] = float64(n) / float64(total)
		}
		// Cap single-keyword certainty; one hit is weak evidence.
		for emotion, s := range emotions {
			if s > 0.9 {
				emotions[emotion] = 0.9
			}
		}
	}

	sarcasm := 0.2
	for _, cue := range sarcasmCues {
		if hasCue(norm, cue) {
			sarcasm = 0.8
			break
		}
	}

	sentiment, sentimentScore := lexiconSentiment(norm)

	return ai.TextScores{
		Emotions:       emotions,
		Sarcasm:        sarcasm,
		Sentiment:      sentiment,
		SentimentScore: sentimentScore,
	}
}

func lexiconSentiment(norm string) (string, float64) {
	var pos, neg int
	for _, w := range positiveWords {
		if hasCue(norm, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if hasCue(norm, w) {
			neg++
		}
	}

	switch {
	case neg > pos:
		return "negative", ratio(neg, pos)
	case pos > neg:
		return "positive", ratio(pos, neg)
	default:
		return "neutral", 0.5
	}
}

func ratio(winner, loser int) float64 {
	s := float64(winner) / float64(winner+loser+1)
	if s < 0.5 {
		s = 0.5
	}
	return s
}

// normalize lowercases the message and collapses punctuation into single
// spaces, padding both ends, so cues match on word boundaries: "no" must
// not fire inside "now" or "know". Apostrophes and slashes stay so cues
// like "can't believe" and "/s" survive.
func normalize(message string) string {
	var b strings.Builder
	b.Grow(len(message) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(message) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '/':
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// hasCue reports whether a normalized message contains the cue as whole
// words. Multi-word cues match as phrases.
func hasCue(norm, cue string) bool {
	return strings.Contains(norm, " "+cue+" ")
}
