package postgres

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

// Save inserts or updates a conversation record
func (r *ConversationRepository) Save(ctx context.Context, c *conversation.Conversation) error {
	const q = `
INSERT INTO conversations
(id, started_at, last_updated, total_messages, avg_risk_score, dominant_emotion, risk_trend)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
 last_updated = EXCLUDED.last_updated,
 total_messages = EXCLUDED.total_messages,
 avg_risk_score = EXCLUDED.avg_risk_score,
 dominant_emotion = EXCLUDED.dominant_emotion,
 risk_trend = EXCLUDED.risk_trend;
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
FROM conversations WHERE id=$1 LIMIT 1;`

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
