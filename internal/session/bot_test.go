package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

type mockMover struct {
	mock.Mock
}

func (that *mockMover) Move(participant Participant, x, y int) {
	that.Called(participant, x, y)
}

func updateFrame(t *testing.T, update protocol.Update) []byte {
	t.Helper()

	body, err := protocol.EncodeUpdate(update)
	require.NoError(t, err)

	frame, err := protocol.EncodeFrame(body)
	require.NoError(t, err)

	return frame
}

func TestBot_Deliver(t *testing.T) {
	t.Run("Bot takes the only free cell on its turn", func(t *testing.T) {
		// Given: a board with a single free cell and the bot to move
		board := entity.Board{
			{entity.Player1, entity.Player2, entity.Player1},
			{entity.Player1, entity.None, entity.Player2},
			{entity.Player2, entity.Player1, entity.Player2},
		}
		game := &mockMover{}
		that := NewBot(game)
		game.On("Move", that, 1, 1).Once()

		// When: the update arrives
		that.Deliver(updateFrame(t, protocol.Update{
			Playing:       true,
			ViewerID:      entity.Player2,
			CurrentPlayer: entity.Player2,
			Winner:        entity.None,
			Board:         board,
		}))

		// Then: the bot claims it
		game.AssertExpectations(t)
	})

	t.Run("Bot waits for its turn", func(t *testing.T) {
		game := &mockMover{}
		that := NewBot(game)

		that.Deliver(updateFrame(t, protocol.Update{
			Playing:       true,
			ViewerID:      entity.Player2,
			CurrentPlayer: entity.Player1,
			Winner:        entity.None,
			Board:         entity.EmptyBoard(),
		}))

		game.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Closed bot ignores updates", func(t *testing.T) {
		game := &mockMover{}
		that := NewBot(game)
		that.Close()

		that.Deliver(updateFrame(t, protocol.Update{
			Playing:       true,
			ViewerID:      entity.Player2,
			CurrentPlayer: entity.Player2,
			Winner:        entity.None,
			Board:         entity.EmptyBoard(),
		}))

		game.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Garbage frame is ignored", func(t *testing.T) {
		game := &mockMover{}
		that := NewBot(game)

		that.Deliver([]byte("   5hello"))

		game.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPickCell(t *testing.T) {
	board := entity.EmptyBoard()
	for x := range board {
		for y := range board[x] {
			board[x][y] = entity.Player1
		}
	}

	_, _, ok := pickCell(board)
	assert.False(t, ok)

	board[2][0] = entity.None
	x, y, ok := pickCell(board)
	assert.True(t, ok)
	assert.Equal(t, [2]int{2, 0}, [2]int{x, y})
}
