package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

// statusMirror writes session statuses to a StatusRepository off the session loop.
// Only the latest status is kept, so a slow store skips intermediate states
// instead of delaying moves.
type statusMirror struct {
	logger  *slog.Logger
	repo    StatusRepository
	port    int
	timeout time.Duration

	mu      sync.Mutex
	pending *entity.SessionStatus
	dirty   bool
	wakeup  chan struct{}
}

func newStatusMirror(logger *slog.Logger, repo StatusRepository, port int, timeout time.Duration) *statusMirror {
	return &statusMirror{
		logger:  logger.With("component", "status-mirror", "port", port),
		repo:    repo,
		port:    port,
		timeout: timeout,
		wakeup:  make(chan struct{}, 1),
	}
}

// save - schedules status to be stored, replacing anything not yet written.
func (that *statusMirror) save(status *entity.SessionStatus) {
	that.schedule(status)
}

// remove - schedules deletion of the stored status.
func (that *statusMirror) remove() {
	that.schedule(nil)
}

func (that *statusMirror) schedule(status *entity.SessionStatus) {
	if that.repo == nil {
		return
	}

	that.mu.Lock()
	that.pending = status
	that.dirty = true
	that.mu.Unlock()

	select {
	case that.wakeup <- struct{}{}:
	default:
	}
}

// run - writes scheduled changes until ctx is canceled.
func (that *statusMirror) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-that.wakeup:
			that.flush()
		}
	}
}

// flush writes the latest scheduled change, if any.
func (that *statusMirror) flush() {
	that.mu.Lock()
	status, dirty := that.pending, that.dirty
	that.pending, that.dirty = nil, false
	that.mu.Unlock()

	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), that.timeout)
	defer cancel()

	if status == nil {
		if err := that.repo.DeleteByPort(ctx, that.port); err != nil {
			that.logger.Error("failed to delete session status", "error", err)
		}

		return
	}

	if err := that.repo.CreateOrUpdate(ctx, status); err != nil {
		that.logger.Error("failed to save session status", "error", err)
	}
}
