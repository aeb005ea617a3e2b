package session

import (
	"context"
	"sync"
)

// Loop runs posted events one at a time on a single goroutine, in post order.
// Everything a session owns is only touched from inside its loop.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wakeup chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		wakeup: make(chan struct{}, 1),
	}
}

// Post - enqueues event. It never blocks, so it is safe to call from inside the loop.
func (that *Loop) Post(event func()) {
	that.mu.Lock()
	that.queue = append(that.queue, event)
	that.mu.Unlock()

	select {
	case that.wakeup <- struct{}{}:
	default:
	}
}

// Run - dispatches events until ctx is canceled.
func (that *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-that.wakeup:
			that.drain()
		}
	}
}

// drain runs queued events, including the ones they post, until the queue is empty.
func (that *Loop) drain() {
	for {
		that.mu.Lock()
		events := that.queue
		that.queue = nil
		that.mu.Unlock()

		if len(events) == 0 {
			return
		}

		for _, event := range events {
			event()
		}
	}
}
