package repository

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// Activity defines the data access interface the scheduler uses for
// crash recovery: any activity row still present on restart is pending
// (fired activities are deleted in the firing transaction).
type Activity interface {
	ListPending(ctx context.Context) ([]domain.Activity, error)
	Delete(ctx context.Context, id string) error
}
