package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/session"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

type admitter interface {
	game

	Admission() <-chan struct{}
	Join(participant session.Participant)
}

// Listener accepts one connection per admission token of its session,
// so nothing is accepted while the session is full or playing.
type Listener struct {
	logger   *slog.Logger
	listener net.Listener
	session  admitter

	writeTimeout time.Duration
}

// Listen - binds addr for session.
func Listen(ctx context.Context, logger *slog.Logger, addr string, session admitter, writeTimeout time.Duration) (*Listener, error) {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return &Listener{
		logger:   logger,
		listener: listener,
		session:  session,

		writeTimeout: writeTimeout,
	}, nil
}

func (that *Listener) Addr() net.Addr {
	return that.listener.Addr()
}

// Serve - admits connections until ctx is canceled. The socket is closed on return.
func (that *Listener) Serve(ctx context.Context) error {
	log := that.logger.With("component", "listener", "method", "Serve", "addr", that.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		if err := that.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error("failed to close listener", "error", err)
		}
	})
	defer func() {
		if stop() {
			_ = that.listener.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-that.session.Admission():
		}

		log.Info("Looking for a player...")

		conn, err := that.accept(ctx, log)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		log.Debug("accepted connection", "remote", conn.RemoteAddr().String())

		that.session.Join(NewConnection(that.logger, conn, that.session, that.writeTimeout))
	}
}

// accept retries failed accepts with backoff while keeping the admission token,
// so errors such as running out of file descriptors never stop the session.
// Only a closed listener or ctx ends it.
func (that *Listener) accept(ctx context.Context, log *slog.Logger) (net.Conn, error) {
	backoff := minAcceptBackoff

	for {
		conn, err := that.listener.Accept()
		if err == nil {
			return conn, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, net.ErrClosed) {
			return nil, fmt.Errorf("failed to accept connection: %w", err)
		}

		log.Warn("failed to accept connection, retrying", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxAcceptBackoff)
	}
}
