package advice

import (
	"strings"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// RiskGuidance is the risk-level specific part of an advice payload.
type RiskGuidance struct {
	Priority      string   `json:"priority"`
	Action        string   `json:"action"`
	Urgency       string   `json:"urgency"`
	EmergencyTips []string `json:"emergency_tips,omitempty"`
}

// Advice is the canned guidance attached to an analysis.
type Advice struct {
	SuggestedResponse string       `json:"suggested_response"`
	ThingsToAvoid     []string     `json:"things_to_avoid"`
	GeneralAdvice     []string     `json:"general_advice"`
	RiskSpecific      RiskGuidance `json:"risk_specific"`
	Explanation       string       `json:"explanation"`
}

type entry struct {
	suggestedResponse string
	thingsToAvoid     []string
	generalAdvice     []string
	explanation       string
}

// Engine maps emotion + risk level onto advice templates.
type Engine struct {
	templates map[string]entry
	byRisk    map[analysis.RiskLevel]RiskGuidance
}

func NewEngine() *Engine {
	return &Engine{templates: buildTemplates(), byRisk: buildRiskGuidance()}
}

// Generate looks up advice for an emotion at a risk level. Unknown
// emotions fall back to the neutral template.
func (e *Engine) Generate(emotion analysis.Emotion, level analysis.RiskLevel) Advice {
	tpl, ok := e.templates[strings.ToLower(string(emotion))]
	if !ok {
		tpl = e.templates["neutral"]
	}
	risk, ok := e.byRisk[level]
	if !ok {
		risk = e.byRisk[analysis.RiskLow]
	}
	return Advice{
		SuggestedResponse: tpl.suggestedResponse,
		ThingsToAvoid:     tpl.thingsToAvoid,
		GeneralAdvice:     tpl.generalAdvice,
		RiskSpecific:      risk,
		Explanation:       tpl.explanation,
	}
}

func buildTemplates() map[string]entry {
	return map[string]entry{
		"anger": {
			suggestedResponse: "I can see you're upset. Can we talk about what's bothering you?",
			thingsToAvoid: []string{
				"Dismissive responses like 'Calm down' or 'It's not a big deal'",
				"Arguing back or being defensive",
				"Minimizing their feelings",
				"Using sarcasm or joking",
			},
			generalAdvice: []string{
				"Listen actively without interrupting",
				"Acknowledge their feelings",
				"Give them space if needed",
				"Stay calm and don't match their energy",
			},
			explanation: "Anger indicates strong frustration. De-escalation is key.",
		},
		"sadness": {
			suggestedResponse: "I'm here for you. Do you want to talk about it?",
			thingsToAvoid: []string{
				"Saying 'Don't be sad' or 'Cheer up'",
				"Trying to immediately fix the problem",
				"Comparing their situation to others",
				"Changing the subject",
			},
			generalAdvice: []string{
				"Offer emotional support",
				"Listen with empathy",
				"Ask if they need anything",
				"Be patient and present",
			},
			explanation: "Sadness needs validation and emotional support, not solutions.",
		},
		"passive-aggressive": {
			suggestedResponse: "I feel like something is bothering you. Want to talk about it?",
			thingsToAvoid: []string{
				"Responding with 'Okay 👍' or matching their tone",
				"Ignoring the underlying issue",
				"Being passive-aggressive back",
				"Asking 'What's wrong?' repeatedly",
			},
			generalAdvice: []string{
				"Address the underlying issue directly but gently",
				"Create a safe space for honest communication",
				"Don't take the bait - stay calm",
				"Acknowledge there might be unspoken concerns",
			},
			explanation: "Passive-aggression hides deeper feelings. Encourage open communication.",
		},
		"sarcastic": {
			suggestedResponse: "I sense some frustration. Let's talk about what's really going on.",
			thingsToAvoid: []string{
				"Being sarcastic back",
				"Taking it personally",
				"Ignoring the underlying message",
				"Laughing it off",
			},
			generalAdvice: []string{
				"Read between the lines",
				"Address the real issue, not the sarcasm",
				"Stay genuine and sincere",
				"Don't escalate with humor",
			},
			explanation: "Sarcasm often masks frustration or hurt. Look for the real message.",
		},
		"joy": {
			suggestedResponse: "That's wonderful! I'm so happy for you!",
			thingsToAvoid: []string{
				"Downplaying their excitement",
				"Making it about yourself",
				"Being cynical or negative",
				"Ignoring their good news",
			},
			generalAdvice: []string{
				"Share in their happiness",
				"Ask them to tell you more",
				"Be genuinely enthusiastic",
				"Celebrate with them",
			},
			explanation: "Joy is contagious. Amplify positive moments together.",
		},
		"fear": {
			suggestedResponse: "I understand you're worried. Let's figure this out together.",
			thingsToAvoid: []string{
				"Saying 'Don't worry' or 'It's fine'",
				"Dismissing their concerns",
				"Adding to their anxiety",
				"Being overly logical",
			},
			generalAdvice: []string{
				"Validate their concerns",
				"Offer reassurance and support",
				"Help them feel safe",
				"Be patient and understanding",
			},
			explanation: "Fear needs reassurance and a sense of safety.",
		},
		"disgust": {
			suggestedResponse: "I can see this really bothers you. Let's talk about it.",
			thingsToAvoid: []string{
				"Arguing about what's 'disgusting' or not",
				"Minimizing their reaction",
				"Forcing them to engage with the source",
				"Being dismissive",
			},
			generalAdvice: []string{
				"Respect their boundaries",
				"Acknowledge their feelings",
				"Give them space from the trigger",
				"Don't push them to explain",
			},
			explanation: "Disgust is a strong aversion. Respect their reaction.",
		},
		"surprise": {
			suggestedResponse: "That must have caught you off guard! How are you feeling?",
			thingsToAvoid: []string{
				"Assuming it's positive or negative",
				"Downplaying the surprise",
				"Moving on too quickly",
				"Making it about yourself",
			},
			generalAdvice: []string{
				"Give them time to process",
				"Ask how they feel about it",
				"Be supportive regardless of their reaction",
				"Listen to their perspective",
			},
			explanation: "Surprise can be positive or negative. Let them process.",
		},
		"neutral": {
			suggestedResponse: "I hear you. What would you like to talk about?",
			thingsToAvoid: []string{
				"Assuming everything is fine",
				"Being overly analytical",
				"Ignoring subtle cues",
				"Being dismissive",
			},
			generalAdvice: []string{
				"Stay present and engaged",
				"Watch for subtle emotional shifts",
				"Ask open-ended questions",
				"Create space for deeper sharing",
			},
			explanation: "Neutral doesn't mean emotionless. Stay attentive.",
		},
	}
}

func buildRiskGuidance() map[analysis.RiskLevel]RiskGuidance {
	return map[analysis.RiskLevel]RiskGuidance{
		analysis.RiskLow: {
			Priority: "Monitor the conversation",
			Action:   "Continue normal communication",
			Urgency:  "No immediate action needed",
		},
		analysis.RiskMedium: {
			Priority: "Be mindful and considerate",
			Action:   "Pay attention to your tone and word choice",
			Urgency:  "Slight caution recommended",
		},
		analysis.RiskHigh: {
			Priority: "De-escalation needed",
			Action:   "Focus on listening and validating feelings",
			Urgency:  "Careful communication required",
		},
		analysis.RiskCritical: {
			Priority: "Immediate attention required",
			Action:   "Stop, listen, and prioritize emotional safety",
			Urgency:  "High risk of conflict escalation",
			EmergencyTips: []string{
				"Pause the conversation if necessary",
				"Apologize if you contributed to the situation",
				"Focus entirely on understanding their perspective",
				"Avoid being defensive at all costs",
				"Consider suggesting a break if emotions are too high",
			},
		},
	}
}
