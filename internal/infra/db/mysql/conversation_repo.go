package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
	"github.com/moodsense-ai/moodsense/internal/domain/conversation"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Save insert/update Conversation record
func (r *ConversationRepository) Save(ctx context.Context, c *conversation.Conversation) error {
	const q = `
INSERT INTO conversations
(id, started_at, last_updated, total_messages, avg_risk_score, dominant_emotion, risk_trend)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 last_updated=VALUES(last_updated), total_messages=VALUES(total_messages),
 avg_risk_score=VALUES(avg_risk_score), dominant_emotion=VALUES(dominant_emotion),
 risk_trend=VALUES(risk_trend);
`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.StartedAt, c.LastUpdated, c.TotalMessages,
		c.AvgRiskScore, c.DominantEmotion, c.RiskTrend,
	)
	return err
}

// Get by ID
func (r *ConversationRepository) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	const q = `
SELECT id, started_at, last_updated, total_messages, avg_risk_score, dominant_emotion, risk_trend
FROM conversations WHERE id=? LIMIT 1;`

	var c conversation.Conversation
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.StartedAt, &c.LastUpdated, &c.TotalMessages,
		&c.AvgRiskScore, &c.DominantEmotion, &c.RiskTrend,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
