package analysis

// TextResult is what a text analyzer produces for one message.
type TextResult struct {
	Emotion           Emotion            `json:"emotion"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	Confidence        float64            `json:"confidence"`
	EmotionBreakdown  map[string]float64 `json:"emotion_breakdown"`
	IsSarcastic       bool               `json:"is_sarcastic"`
	SarcasmConfidence float64            `json:"sarcasm_confidence"`
	Sentiment         string             `json:"sentiment"`
	SentimentScore    float64            `json:"sentiment_score"`
}

// FeatureStat describes one extracted audio feature.
type FeatureStat struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std,omitempty"`
	Level string  `json:"level"`
}

// VoiceFeatures groups the audio features used for tone classification.
type VoiceFeatures struct {
	Pitch      FeatureStat `json:"pitch"`
	Volume     FeatureStat `json:"volume"`
	SpeechRate FeatureStat `json:"speech_rate"`
	Energy     FeatureStat `json:"energy"`
}

// VoiceResult is what a voice analyzer produces for one recording.
type VoiceResult struct {
	Tone           string        `json:"tone"`
	Emotion        Emotion       `json:"emotion"`
	StressLevel    float64       `json:"stress_level"`
	RiskLevel      RiskLevel     `json:"risk_level"`
	Features       VoiceFeatures `json:"features"`
	Interpretation string        `json:"interpretation"`
}

// FaceResult is what a face analyzer produces for one image.
type FaceResult struct {
	FaceDetected     bool               `json:"face_detected"`
	Emotion          Emotion            `json:"emotion"`
	Confidence       float64            `json:"confidence"`
	RiskLevel        RiskLevel          `json:"risk_level"`
	DetailedEmotions map[string]float64 `json:"detailed_emotions,omitempty"`
	FacesCount       int                `json:"faces_count"`
	Message          string             `json:"message,omitempty"`
}
