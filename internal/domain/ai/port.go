package ai

import "context"

// TextScores are raw classifier outputs for a text message.
type TextScores struct {
	Emotions       map[string]float64 `json:"emotions"`
	Sarcasm        float64            `json:"sarcasm"`
	Sentiment      string             `json:"sentiment"`
	SentimentScore float64            `json:"sentiment_score"`
}

// FaceScores are raw classifier outputs for an image.
type FaceScores struct {
	FaceDetected bool               `json:"face_detected"`
	FacesCount   int                `json:"faces_count"`
	Emotions     map[string]float64 `json:"emotions"`
}

// Client is the port to a hosted classification model.
type Client interface {
	ClassifyText(ctx context.Context, message string) (TextScores, error)
	ClassifyImage(ctx context.Context, image []byte, mime string) (FaceScores, error)
}
