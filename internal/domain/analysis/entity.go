package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID tipe untuk Analysis
type AnalysisID string

// Modality enum
type Modality string

const (
	ModalityText     Modality = "text"
	ModalityVoice    Modality = "voice"
	ModalityFace     Modality = "face"
	ModalityCombined Modality = "combined"
)

// ParseModality validates a modality string; empty means "all".
func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case "", ModalityText, ModalityVoice, ModalityFace, ModalityCombined:
		return Modality(s), nil
	}
	return "", fmt.Errorf("invalid modality: %s: %w", s, ErrInvalidInput)
}

// Emotion enum
type Emotion string

const (
	EmotionAnger             Emotion = "anger"
	EmotionDisgust           Emotion = "disgust"
	EmotionFear              Emotion = "fear"
	EmotionJoy               Emotion = "joy"
	EmotionNeutral           Emotion = "neutral"
	EmotionSadness           Emotion = "sadness"
	EmotionSurprise          Emotion = "surprise"
	EmotionSarcastic         Emotion = "sarcastic"
	EmotionPassiveAggressive Emotion = "passive-aggressive"
)

// Aggregate Root: Analysis
type Analysis struct {
	ID             AnalysisID     `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	Modality       Modality       `json:"modality"`
	InputText      string         `json:"input_text,omitempty"`
	MediaURL       string         `json:"media_url,omitempty"`
	Emotion        Emotion        `json:"emotion"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Confidence     float64        `json:"confidence"`
	Details        map[string]any `json:"details,omitempty"`
	Suggestions    []string       `json:"suggestions,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	DurationMS     int64          `json:"duration_ms"`
}

// NewID builds a composite id: <uuid>-<modality>.
func NewID(m Modality) AnalysisID {
	return AnalysisID(fmt.Sprintf("%s-%s", uuid.New().String(), m))
}
