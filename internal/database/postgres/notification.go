package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// NotificationRepository implements the push outbox for PostgreSQL
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists an outbound push message
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Reply)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	query := `
		INSERT INTO pending_notifications (chat_id, payload)
		VALUES ($1, $2)
		RETURNING notification_id
	`

	if err := r.db.QueryRow(ctx, query, n.ChatID, payload).Scan(&n.ID); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// MarkNotified flags a notification as delivered
func (r *NotificationRepository) MarkNotified(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE pending_notifications SET notified = TRUE WHERE notification_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification: %w", err)
	}
	return nil
}

// ListUnnotified returns undelivered notifications in insertion order
func (r *NotificationRepository) ListUnnotified(ctx context.Context, limit int) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, chat_id, payload, notified
		FROM pending_notifications
		WHERE NOT notified
		ORDER BY notification_id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var ns []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.ChatID, &payload, &n.Notified); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if err := json.Unmarshal(payload, &n.Reply); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification payload: %w", err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ns, nil
}
