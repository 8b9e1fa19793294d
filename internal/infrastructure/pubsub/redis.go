package pubsub

import (
	"context"
	"encoding/json"

	"loanserve/internal/domain/notify"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes status-change events over redis pub/sub. Delivery
// is at-most-once with no persistence: a channel with no subscribers drops
// the message, which is the intended behavior for offline sessions.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier { return &RedisNotifier{rdb: rdb} }

func (n *RedisNotifier) PublishStatusChange(ctx context.Context, ev notify.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	for _, ch := range ev.Channels() {
		if err := n.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Subscriber is an explicit, caller-owned handle on a set of channels. Open
// one per connected session and Close it when the session ends; there is no
// shared module-level connection.
type Subscriber struct {
	ps     *redis.PubSub
	events chan notify.Event
}

const subscriberBuffer = 16

// NewSubscriber confirms the subscription before returning so a caller that
// publishes immediately afterwards cannot race its own subscribe.
func NewSubscriber(ctx context.Context, rdb *redis.Client, channels ...string) (*Subscriber, error) {
	ps := rdb.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	s := &Subscriber{ps: ps, events: make(chan notify.Event, subscriberBuffer)}
	go s.pump()
	return s, nil
}

func (s *Subscriber) pump() {
	for msg := range s.ps.Channel() {
		var ev notify.Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Slow consumer: drop. Sessions recover by refetching state.
		}
	}
	close(s.events)
}

// Events yields decoded events until Close. Missed or dropped events are not
// replayed.
func (s *Subscriber) Events() <-chan notify.Event { return s.events }

func (s *Subscriber) Close() error { return s.ps.Close() }
