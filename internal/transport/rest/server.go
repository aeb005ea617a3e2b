// Package rest serves the read-only status API next to the game ports.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

const shutdownTimeout = 5 * time.Second

// StatusSource - a session that can report its status.
type StatusSource interface {
	Status(ctx context.Context) (*entity.SessionStatus, error)
}

type Server struct {
	logger   *slog.Logger
	sessions []StatusSource
	srv      *http.Server
}

func New(logger *slog.Logger, port string, sessions ...StatusSource) *Server {
	that := &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}

	that.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	return that
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /sessions", that.sessionsHandler)

	return mux
}

// Start - serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := that.srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	})
	defer stop()

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
