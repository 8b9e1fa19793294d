package notifymock

import (
	"context"
	"sync"

	"loanserve/internal/domain/notify"
)

// Notifier records published events; set Err to simulate a broker outage.
type Notifier struct {
	mu     sync.Mutex
	Err    error
	events []notify.Event
}

func (m *Notifier) PublishStatusChange(_ context.Context, ev notify.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *Notifier) Events() []notify.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Event, len(m.events))
	copy(out, m.events)
	return out
}
