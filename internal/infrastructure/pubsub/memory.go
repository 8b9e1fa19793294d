package pubsub

import (
	"context"
	"sync"

	"loanserve/internal/domain/notify"
)

// MemoryBroker is a process-local notify.Notifier for single-instance runs
// without a redis broker, and for tests. Same at-most-once contract as the
// redis path: no subscribers means the event is dropped.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*MemorySubscription]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*MemorySubscription]struct{})}
}

func (b *MemoryBroker) PublishStatusChange(_ context.Context, ev notify.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range ev.Channels() {
		for sub := range b.subs[ch] {
			select {
			case sub.events <- ev:
			default:
			}
		}
	}
	return nil
}

// Subscribe returns a caller-owned subscription; Close detaches it.
func (b *MemoryBroker) Subscribe(channels ...string) *MemorySubscription {
	sub := &MemorySubscription{
		broker:   b,
		channels: channels,
		events:   make(chan notify.Event, subscriberBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range channels {
		if b.subs[ch] == nil {
			b.subs[ch] = make(map[*MemorySubscription]struct{})
		}
		b.subs[ch][sub] = struct{}{}
	}
	return sub
}

type MemorySubscription struct {
	broker   *MemoryBroker
	channels []string
	events   chan notify.Event
	once     sync.Once
}

func (s *MemorySubscription) Events() <-chan notify.Event { return s.events }

func (s *MemorySubscription) Close() error {
	s.once.Do(func() {
		s.broker.mu.Lock()
		defer s.broker.mu.Unlock()
		for _, ch := range s.channels {
			delete(s.broker.subs[ch], s)
		}
		close(s.events)
	})
	return nil
}
