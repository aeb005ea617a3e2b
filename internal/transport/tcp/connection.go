// Package tcp carries game sessions over plain TCP: a Connection per remote
// participant and a Listener per port that admits connections while its
// session is recruiting.
package tcp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/session"
)

// defaultFlushTimeout bounds how long a closed connection keeps writing frames that
// were delivered before Close, including a write already in progress.
const defaultFlushTimeout = 5 * time.Second

type game interface {
	Move(participant session.Participant, x, y int)
	Leave(participant session.Participant)
}

// Connection is a remote participant. Inbound frames are parsed as moves and
// posted to the game; outbound frames are written one at a time in delivery order.
type Connection struct {
	logger *slog.Logger
	conn   net.Conn
	game   game

	id           string
	writeTimeout time.Duration
	flushTimeout time.Duration

	mu     sync.Mutex
	queue  [][]byte
	wakeup chan struct{}
	done   chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
}

// NewConnection - wraps conn. Nothing is read or written until Start.
// A zero writeTimeout disables write deadlines.
func NewConnection(logger *slog.Logger, conn net.Conn, game game, writeTimeout time.Duration) *Connection {
	id := uuid.NewString()

	return &Connection{
		logger: logger.With("component", "connection", "participant", id, "remote", conn.RemoteAddr().String()),
		conn:   conn,
		game:   game,

		id:           id,
		writeTimeout: writeTimeout,
		flushTimeout: defaultFlushTimeout,

		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (that *Connection) ID() string {
	return that.id
}

// Start - begins reading moves and writing delivered frames.
func (that *Connection) Start() {
	that.startOnce.Do(func() {
		go that.readLoop()
		go that.writeLoop()
	})
}

// Deliver - queues frame behind every frame delivered before it. It never blocks.
func (that *Connection) Deliver(frame []byte) {
	select {
	case <-that.done:
		return
	default:
	}

	that.mu.Lock()
	that.queue = append(that.queue, frame)
	that.mu.Unlock()

	select {
	case that.wakeup <- struct{}{}:
	default:
	}
}

// Close - stops reading, lets the writer flush what was already delivered, then
// shuts the socket down. The game is told the participant is gone exactly once.
func (that *Connection) Close() {
	that.closeOnce.Do(func() {
		close(that.done)

		if err := that.conn.SetReadDeadline(time.Now()); err != nil {
			that.logger.Debug("failed to interrupt reader", "error", err)
		}

		// a write blocked on a peer that stopped reading must give up too
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.closingTimeout())); err != nil {
			that.logger.Debug("failed to bound pending write", "error", err)
		}

		// never started: there is no writer to shut the socket down
		that.startOnce.Do(that.shutdown)

		that.game.Leave(that)
	})
}

func (that *Connection) readLoop() {
	log := that.logger.With("method", "readLoop")

	reader := protocol.NewReader(that.conn)

	for {
		body, err := reader.ReadFrame()
		if err != nil {
			if that.closed() || errors.Is(err, io.EOF) {
				log.Debug("connection closed", "error", err)
			} else {
				log.Warn("failed to read frame", "error", err)
			}

			that.Close()

			return
		}

		x, y, err := protocol.ParseMove(body)
		if err != nil {
			log.Debug("ignoring message", "error", err)
			continue
		}

		that.game.Move(that, x, y)
	}
}

func (that *Connection) writeLoop() {
	log := that.logger.With("method", "writeLoop")

	defer that.shutdown()

	for {
		frame, ok := that.next()
		if !ok {
			select {
			case <-that.done:
				return
			case <-that.wakeup:
				continue
			}
		}

		if err := that.write(frame); err != nil {
			if !that.closed() {
				log.Warn("failed to write frame", "error", err)
			}

			that.Close()

			return
		}
	}
}

func (that *Connection) write(frame []byte) error {
	// once closed, the deadline set by Close covers every remaining write
	if that.writeTimeout > 0 && !that.closed() {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	if _, err := that.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}

	return nil
}

// closingTimeout is the flush budget, or the write timeout when that is shorter.
func (that *Connection) closingTimeout() time.Duration {
	if that.writeTimeout > 0 && that.writeTimeout < that.flushTimeout {
		return that.writeTimeout
	}

	return that.flushTimeout
}

func (that *Connection) shutdown() {
	if err := that.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		that.logger.Debug("failed to close connection", "error", err)
	}
}

func (that *Connection) next() ([]byte, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.queue) == 0 {
		return nil, false
	}

	frame := that.queue[0]
	that.queue[0] = nil
	that.queue = that.queue[1:]

	return frame, true
}

func (that *Connection) closed() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}
