// Package notify delivers game replies to heroes' chat channels.
// Replies are written to a durable outbox first, then pushed to
// connected bridges over SSE. Delivery failures never affect the
// gameplay transaction that produced the reply.
package notify

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/logger"
	"github.com/PixVoxGames/0pg/internal/repository"
	"github.com/PixVoxGames/0pg/internal/sse"
)

// Notifier sends a reply to a hero's chat. Implementations must not
// propagate delivery failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, reply domain.Reply)
}

// Payload is the SSE payload for a hero notification.
type Payload struct {
	NotificationID int64      `json:"notification_id"`
	ChatID         int64      `json:"chat_id"`
	Text           string     `json:"text"`
	Choices        [][]string `json:"choices,omitempty"`
}

type outbox struct {
	repo repository.Notification
	hub  *sse.Hub
}

// NewOutbox creates a Notifier backed by the pending_notifications table
// and an SSE hub.
func NewOutbox(repo repository.Notification, hub *sse.Hub) Notifier {
	return &outbox{repo: repo, hub: hub}
}

func (o *outbox) Notify(ctx context.Context, chatID int64, reply domain.Reply) {
	log := logger.FromContext(ctx)

	n := domain.Notification{ChatID: chatID, Reply: reply}
	if err := o.repo.Create(ctx, &n); err != nil {
		log.Error("Failed to persist notification", "chatID", chatID, "error", err)
		// Still push over SSE so a connected bridge can deliver it
		o.hub.Broadcast(sse.EventTypeNotification, Payload{
			ChatID:  chatID,
			Text:    reply.Text,
			Choices: reply.Choices,
		})
		return
	}

	o.hub.Broadcast(sse.EventTypeNotification, Payload{
		NotificationID: n.ID,
		ChatID:         chatID,
		Text:           reply.Text,
		Choices:        reply.Choices,
	})

	if err := o.repo.MarkNotified(ctx, n.ID); err != nil {
		log.Error("Failed to mark notification delivered", "notificationID", n.ID, "error", err)
	}
}

// ResendUnnotified re-broadcasts notifications that were persisted but
// never marked delivered, typically after a restart.
func ResendUnnotified(ctx context.Context, repo repository.Notification, hub *sse.Hub, limit int) error {
	log := logger.FromContext(ctx)

	pending, err := repo.ListUnnotified(ctx, limit)
	if err != nil {
		return err
	}

	for _, n := range pending {
		hub.Broadcast(sse.EventTypeNotification, Payload{
			NotificationID: n.ID,
			ChatID:         n.ChatID,
			Text:           n.Reply.Text,
			Choices:        n.Reply.Choices,
		})
		if err := repo.MarkNotified(ctx, n.ID); err != nil {
			log.Error("Failed to mark notification delivered", "notificationID", n.ID, "error", err)
		}
	}

	if len(pending) > 0 {
		log.Info("Resent undelivered notifications", "count", len(pending))
	}
	return nil
}
