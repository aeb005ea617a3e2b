// Package client talks to a game server: it streams the updates addressed to
// this player and sends moves back.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

type Client struct {
	logger *slog.Logger
	conn   net.Conn

	writeMu sync.Mutex
	updates chan protocol.Update
}

// Dial - connects to a server at addr.
func Dial(ctx context.Context, logger *slog.Logger, addr string) (*Client, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to the server: %w", err)
	}

	return New(logger, conn), nil
}

func New(logger *slog.Logger, conn net.Conn) *Client {
	return &Client{
		logger:  logger.With("component", "client"),
		conn:    conn,
		updates: make(chan protocol.Update),
	}
}

// Updates - yields every valid update from the server. It is closed when Run returns.
func (that *Client) Updates() <-chan protocol.Update {
	return that.updates
}

// Run - reads updates until the server hangs up, the connection fails or ctx is canceled.
// Payloads that are not updates are dropped.
func (that *Client) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	defer close(that.updates)

	stop := context.AfterFunc(ctx, func() { _ = that.conn.Close() })
	defer stop()

	reader := protocol.NewReader(that.conn)

	for {
		body, err := reader.ReadFrame()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("an error occurred while listening to the server: %w", err)
		}

		update, err := protocol.DecodeUpdate(body)
		if err != nil {
			log.Debug("dropping message", "error", err)
			continue
		}

		select {
		case that.updates <- update:
		case <-ctx.Done():
			return nil
		}
	}
}

// Take - asks the server for cell (x, y).
func (that *Client) Take(x, y int) error {
	frame, err := protocol.EncodeFrame(protocol.EncodeMove(x, y))
	if err != nil {
		return fmt.Errorf("failed to encode move: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if _, err = that.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to send move: %w", err)
	}

	return nil
}

func (that *Client) Close() error {
	if err := that.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
