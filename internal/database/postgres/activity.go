package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// ActivityRepository implements the scheduler recovery repository for PostgreSQL
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListPending returns every persisted activity. Rows are deleted in the
// firing transaction, so anything still present is pending (or due).
func (r *ActivityRepository) ListPending(ctx context.Context) ([]domain.Activity, error) {
	query := `
		SELECT activity_id, hero_id, kind, start_time, duration_seconds
		FROM activities
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending activities: %w", err)
	}
	defer rows.Close()

	var acts []domain.Activity
	for rows.Next() {
		var act domain.Activity
		var seconds float64
		if err := rows.Scan(&act.ID, &act.HeroID, &act.Kind, &act.StartTime, &seconds); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		act.Duration = time.Duration(seconds * float64(time.Second))
		acts = append(acts, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return acts, nil
}

// Delete removes a cancelled activity row
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM activities WHERE activity_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
