package session

import (
	"bytes"
	"math/rand"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

type mover interface {
	Move(participant Participant, x, y int)
}

// Bot is an in-process participant that answers every update addressed to it
// with a random free cell when it is its turn.
type Bot struct {
	id     string
	game   mover
	closed atomic.Bool
}

func NewBot(game mover) *Bot {
	return &Bot{
		id:   "bot-" + uuid.NewString(),
		game: game,
	}
}

func (that *Bot) ID() string {
	return that.id
}

func (that *Bot) Start() {}

func (that *Bot) Deliver(frame []byte) {
	if that.closed.Load() {
		return
	}

	body, err := protocol.NewReader(bytes.NewReader(frame)).ReadFrame()
	if err != nil {
		return
	}

	update, err := protocol.DecodeUpdate(body)
	if err != nil {
		return
	}

	if !update.Playing || update.CurrentPlayer != update.ViewerID {
		return
	}

	if x, y, ok := pickCell(update.Board); ok {
		that.game.Move(that, x, y)
	}
}

func (that *Bot) Close() {
	that.closed.Store(true)
}

func pickCell(board entity.Board) (int, int, bool) {
	free := make([][2]int, 0, entity.BoardSide*entity.BoardSide)
	for x := range board {
		for y := range board[x] {
			if board[x][y] == entity.None {
				free = append(free, [2]int{x, y})
			}
		}
	}

	if len(free) == 0 {
		return 0, 0, false
	}

	cell := free[rand.Intn(len(free))] //nolint: gosec // it's ok

	return cell[0], cell[1], true
}
