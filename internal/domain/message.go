package domain

// Reply is a message back to the player, with an optional choice set the
// transport renders as a reply keyboard. Choices are rows of buttons.
type Reply struct {
	Text    string     `json:"text"`
	Choices [][]string `json:"choices,omitempty"`
}

// NewReply builds a plain text reply.
func NewReply(text string) Reply {
	return Reply{Text: text}
}

// WithChoices attaches a choice set to the reply.
func (r Reply) WithChoices(rows ...[]string) Reply {
	r.Choices = rows
	return r
}

// Notification is a persisted outbound push message (the outbox row).
// Mutation commits first; delivery is best-effort and never rolls back
// game state.
type Notification struct {
	ID       int64 `json:"id"`
	ChatID   int64 `json:"chat_id"`
	Reply    Reply `json:"reply"`
	Notified bool  `json:"notified"`
}
