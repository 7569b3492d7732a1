package conversation

import "context"

// Repository port for conversation tracking
type Repository interface {
	Save(ctx context.Context, c *Conversation) error
	Get(ctx context.Context, id string) (*Conversation, error)
}
