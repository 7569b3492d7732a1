package conversation

import "time"

// Conversation tracks per-thread emotional trend across text analyses.
type Conversation struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	LastUpdated     time.Time `json:"last_updated"`
	TotalMessages   int       `json:"total_messages"`
	AvgRiskScore    float64   `json:"avg_risk_score"`
	DominantEmotion string    `json:"dominant_emotion"`
	RiskTrend       string    `json:"risk_trend"` // escalating | stable | improving
}
