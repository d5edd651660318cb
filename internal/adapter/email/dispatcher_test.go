package email

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/port"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []port.Email
}

func (r *recordingSender) Send(ctx context.Context, msg port.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcherDeliversQueuedMail(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, 2, 10, zap.NewNop())

	for i := 0; i < 5; i++ {
		if err := d.Send(context.Background(), port.Email{To: "buyer@shop.test", Subject: "Order confirmed"}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	d.Close()

	if sender.count() != 5 {
		t.Errorf("expected 5 deliveries, got %d", sender.count())
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 1, zap.NewNop())
	d.Close()

	if err := d.Send(context.Background(), port.Email{To: "buyer@shop.test"}); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcherCloseIdempotent(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 1, zap.NewNop())
	d.Close()
	d.Close()
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// No workers: nothing drains the queue, so overflow must drop, not block.
	d := &Dispatcher{
		sender: &recordingSender{},
		queue:  make(chan port.Email, 1),
		logger: zap.NewNop(),
	}

	if err := d.Send(context.Background(), port.Email{To: "a@shop.test"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := d.Send(context.Background(), port.Email{To: "b@shop.test"}); err != nil {
		t.Fatalf("overflow send must not error: %v", err)
	}
	if len(d.queue) != 1 {
		t.Errorf("expected 1 queued message, got %d", len(d.queue))
	}
}
