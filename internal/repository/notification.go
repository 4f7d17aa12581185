package repository

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// Notification defines the outbox interface for push messages.
type Notification interface {
	Create(ctx context.Context, n *domain.Notification) error
	MarkNotified(ctx context.Context, id int64) error
	ListUnnotified(ctx context.Context, limit int) ([]domain.Notification, error)
}
