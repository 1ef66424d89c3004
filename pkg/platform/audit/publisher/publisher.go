package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "pkgconfirm/pkg/platform/audit"
	"pkgconfirm/pkg/platform/audit/worker"
)

var (
	ErrBufferFull   = errors.New("audit buffer full")
	ErrListNotFound = errors.New("audit store does not support listing")
)

// Publisher fans audit events into a Store. In sync mode Emit writes through;
// with an async buffer Emit enqueues and a background worker persists.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
	now    func() time.Time

	bufferSize int
	queue      chan audit.Event
	wg         sync.WaitGroup
	closeOnce  sync.Once
	mu         sync.RWMutex
	closed     bool
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a queue of the given size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufferSize = size
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.queue = make(chan audit.Event, p.bufferSize)
		w := worker.NewWorker(store, p.queue, p.logger)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. A zero timestamp is filled from the publisher clock.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"session_id", event.SessionID,
		)
		return ErrBufferFull
	}
}

// List returns the events recorded for a session when the store supports it.
func (p *Publisher) List(ctx context.Context, sessionID string) ([]audit.Event, error) {
	lister, ok := p.store.(audit.Lister)
	if !ok {
		return nil, ErrListNotFound
	}
	return lister.ListBySession(ctx, sessionID)
}

// Close stops accepting queued events and waits for the worker to drain.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.queue == nil {
			return
		}
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
	})
}
