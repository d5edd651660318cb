package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/port"
)

var ErrClosed = errors.New("mail dispatcher closed")

const sendTimeout = 10 * time.Second

// Dispatcher decouples request handlers from the mail provider: Send enqueues
// onto a buffered channel and worker goroutines deliver in the background.
// A full queue drops the message; transactional mail is fire-and-forget.
type Dispatcher struct {
	sender port.Mailer
	queue  chan port.Email
	wg     sync.WaitGroup
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(sender port.Mailer, workers, queueSize int, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan port.Email, queueSize),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.workerLoop()
		}()
	}
	return d
}

func (d *Dispatcher) workerLoop() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Warn("mail delivery failed", zap.String("to", msg.To), zap.Error(err))
		}
		cancel()
	}
}

// Send enqueues without blocking the caller.
func (d *Dispatcher) Send(_ context.Context, msg port.Email) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		d.logger.Warn("mail queue full, dropping message", zap.String("to", msg.To))
		return nil
	}
}

// Close stops accepting mail and waits for in-flight deliveries to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}
