package notify

import (
	"context"
	"time"
)

// Event is the status-change notification. Wire-only: it is published to the
// loan owner's channel and the shared admin channel, delivered at most once,
// and never persisted. The loan record stays authoritative; a session that
// misses an event recovers by refetching.
type Event struct {
	LoanID    string    `json:"loan_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	AdminNote string    `json:"admin_note,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

const AdminChannel = "role:admin"

// UserChannel names the per-owner channel a session joins for its own loans.
func UserChannel(userID string) string { return "user:" + userID }

// Channels lists the destinations for an event: the owner's channel plus the
// admin channel.
func (e Event) Channels() []string {
	return []string{UserChannel(e.UserID), AdminChannel}
}

// Notifier publishes status-change events. Implementations must be safe for
// concurrent use and must not block the caller beyond ctx; publish failures
// are the caller's to swallow.
type Notifier interface {
	PublishStatusChange(ctx context.Context, ev Event) error
}
