package pubsub

import (
	"context"
	"testing"
	"time"

	"loanserve/internal/domain/notify"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testEvent() notify.Event {
	return notify.Event{
		LoanID:    "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		UserID:    "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Status:    "approved",
		AdminNote: "looks good",
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func recv(t *testing.T, ch <-chan notify.Event) notify.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("subscription closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return notify.Event{}
}

func TestRedisNotifier_RoutesToOwnerAndAdmins(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	ev := testEvent()

	owner, err := NewSubscriber(ctx, rdb, notify.UserChannel(ev.UserID))
	if err != nil {
		t.Fatalf("owner subscribe: %v", err)
	}
	t.Cleanup(func() { _ = owner.Close() })

	admin, err := NewSubscriber(ctx, rdb, notify.AdminChannel)
	if err != nil {
		t.Fatalf("admin subscribe: %v", err)
	}
	t.Cleanup(func() { _ = admin.Close() })

	stranger, err := NewSubscriber(ctx, rdb, notify.UserChannel("cccccccccccccccccccccccccccccccc"))
	if err != nil {
		t.Fatalf("stranger subscribe: %v", err)
	}
	t.Cleanup(func() { _ = stranger.Close() })

	n := NewRedisNotifier(rdb)
	if err := n.PublishStatusChange(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := recv(t, owner.Events())
	if got.LoanID != ev.LoanID || got.Status != ev.Status || got.AdminNote != ev.AdminNote {
		t.Fatalf("owner got %+v, want %+v", got, ev)
	}
	if got := recv(t, admin.Events()); got.LoanID != ev.LoanID {
		t.Fatalf("admin got %+v", got)
	}

	select {
	case ev := <-stranger.Events():
		t.Fatalf("unrelated subscriber received %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisNotifier_PublishFailsWhenBrokerDown(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s.Close()

	n := NewRedisNotifier(rdb)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := n.PublishStatusChange(ctx, testEvent()); err == nil {
		t.Fatalf("want error when broker is down")
	}
}

func TestSubscriber_CloseEndsEventStream(t *testing.T) {
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sub, err := NewSubscriber(context.Background(), rdb, notify.AdminChannel)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatalf("unexpected event after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("events channel not closed")
	}
}
