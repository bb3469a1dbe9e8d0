package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Recorder writes interactions to a Store from a background goroutine so
// request handlers never wait on SQLite. When the buffer is full new
// interactions are dropped with a warning.
type Recorder struct {
	store  *Store
	logger *slog.Logger
	ch     chan Interaction
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewRecorder starts the writer goroutine. buffer < 1 is treated as 1.
func NewRecorder(store *Store, buffer int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer < 1 {
		buffer = 1
	}
	r := &Recorder{
		store:  store,
		logger: logger,
		ch:     make(chan Interaction, buffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for it := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Insert(ctx, it); err != nil {
			r.logger.Warn("journal write failed", "request_id", it.RequestID, "error", err)
		}
		cancel()
	}
}

// Record queues an interaction. It returns false when the interaction was
// dropped because the buffer is full or the recorder is closed.
func (r *Recorder) Record(it Interaction) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	select {
	case r.ch <- it:
		return true
	default:
		r.logger.Warn("journal buffer full, dropping interaction", "request_id", it.RequestID)
		return false
	}
}

// Recent reads from the underlying store.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	return r.store.Recent(ctx, limit)
}

// Close stops accepting interactions, drains the queue and closes the store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrStoreClosed
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	<-r.done
	return r.store.Close()
}
