package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/config"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/repository"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/session"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/transport/tcp"
)

const telemetryShutdownTimeout = 5 * time.Second

// RunApp - runs one session per configured port until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	shutdownTracing, err := telemetry.Setup(ctx, conf.Telemetry.Endpoint, conf.Telemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("could not set up tracing: %w", err)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer shutdownCancel()

		if err = shutdownTracing(shutdownCtx); err != nil {
			log.Error("could not flush traces", "error", err)
		}
	}()

	var statusRepo session.StatusRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		statusRepo = repository.NewSessionRepository(redisStorage.Connection, conf.Redis.TTL)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	sessions := make([]*session.Session, 0, len(conf.Ports)+len(conf.BotPorts))
	listeners := make([]*tcp.Listener, 0, cap(sessions))

	addSession := func(port int, withBot bool) error {
		game := session.New(logger, session.Config{Port: port, WithBot: withBot}, statusRepo)

		listener, err := tcp.Listen(groupCtx, logger, conf.ListenAddr(port), game, conf.WriteTimeout)
		if err != nil {
			return err
		}

		sessions = append(sessions, game)
		listeners = append(listeners, listener)

		return nil
	}

	for _, port := range conf.Ports {
		if err = addSession(port, false); err != nil {
			return err
		}
	}

	for _, port := range conf.BotPorts {
		if err = addSession(port, true); err != nil {
			return err
		}
	}

	for i := range sessions {
		game, listener := sessions[i], listeners[i]

		group.Go(func() error {
			if err := game.Run(groupCtx); !errors.Is(err, context.Canceled) {
				return fmt.Errorf("session on port %d stopped: %w", game.Port(), err)
			}

			return nil
		})

		group.Go(func() error {
			log.Info("Starting TCP listener", "port", game.Port(), "addr", listener.Addr().String())

			return listener.Serve(groupCtx)
		})
	}

	if conf.HTTPPort != "" {
		statuses := make([]rest.StatusSource, 0, len(sessions))
		for _, game := range sessions {
			statuses = append(statuses, game)
		}

		server := rest.New(logger, conf.HTTPPort, statuses...)

		group.Go(func() error {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)

			if err := server.Start(groupCtx); err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}

			return nil
		})
	}

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
