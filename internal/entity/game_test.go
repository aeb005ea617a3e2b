package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = Player1
	o = Player2
	e = None
)

func TestOwner(t *testing.T) {
	t.Run("Opponent alternates between the two roles", func(t *testing.T) {
		assert.Equal(t, Player2, Player1.Opponent())
		assert.Equal(t, Player1, Player2.Opponent())
		assert.Equal(t, None, None.Opponent())
	})

	t.Run("Valid rejects values outside the enum", func(t *testing.T) {
		assert.True(t, None.Valid())
		assert.False(t, Owner(3).Valid())
		assert.False(t, Owner(-1).Valid())
	})
}

func TestBoard_Evaluate(t *testing.T) {
	t.Run("Returns Player1 for a completed first row", func(t *testing.T) {
		// Given: a board where Player1 owns (0,0), (0,1) and (0,2)
		board := Board{
			{x, x, x},
			{e, o, e},
			{o, e, e},
		}

		// When: evaluating the board
		winner, over := board.Evaluate()

		// Then: Player1 wins
		assert.Equal(t, Player1, winner)
		assert.True(t, over)
	})

	t.Run("Detects every winning line for Player2", func(t *testing.T) {
		for _, line := range WinLines {
			// Given: a board where only the cells of one line are owned
			board := EmptyBoard()
			for i := 0; i < BoardSide; i++ {
				board[line.X+i*line.DX][line.Y+i*line.DY] = o
			}

			// When: evaluating the board
			winner, over := board.Evaluate()

			// Then: Player2 is reported as the winner
			assert.Equal(t, Player2, winner, "line %+v", line)
			assert.True(t, over, "line %+v", line)
		}
	})

	t.Run("Returns a tie on a full board without a line", func(t *testing.T) {
		// Given: a full board with no three in a row
		board := Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		// When: evaluating the board
		winner, over := board.Evaluate()

		// Then: the game is over without a winner
		assert.Equal(t, None, winner)
		assert.True(t, over)
	})

	t.Run("Game goes on with empty cells and no line", func(t *testing.T) {
		// Given: a partially filled board
		board := Board{
			{x, o, e},
			{e, x, e},
			{e, e, o},
		}

		// When: evaluating the board
		winner, over := board.Evaluate()

		// Then: nothing is decided yet
		assert.Equal(t, None, winner)
		assert.False(t, over)
	})
}

func TestState_Start(t *testing.T) {
	// Given: a state left over from a finished game
	state := State{
		Playing:       false,
		CurrentPlayer: Player2,
		Winner:        Player2,
		Board:         Board{{o, o, o}, {x, x, e}, {e, e, e}},
	}

	// When: a new game starts
	state.Start()

	// Then: the board is cleared and Player1 moves first
	assert.Equal(t, State{Playing: true, CurrentPlayer: Player1, Winner: None, Board: EmptyBoard()}, state)
}

func TestState_Claim(t *testing.T) {
	t.Run("Successful claim hands the turn over", func(t *testing.T) {
		// Given: a started game
		state := NewState()
		state.Start()

		// When: Player1 takes the center
		err := state.Claim(Player1, 1, 1)
		require.NoError(t, err)

		// Then: the cell is owned and Player2 is next
		assert.Equal(t, Player1, state.Board[1][1])
		assert.Equal(t, Player2, state.CurrentPlayer)
		assert.True(t, state.Playing)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a started game where Player1 is to move
		state := NewState()
		state.Start()
		before := state

		// When: Player2 tries to move
		err := state.Claim(Player2, 0, 0)

		// Then: ErrNotYourTurn is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, before, state)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: Player1 owns (0,0)
		state := NewState()
		state.Start()
		require.NoError(t, state.Claim(Player1, 0, 0))
		before := state

		// When: Player2 tries the same cell
		err := state.Claim(Player2, 0, 0)

		// Then: ErrCellOccupied is returned and the owner stays Player1
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, state)
	})

	t.Run("Error on out of range cells", func(t *testing.T) {
		state := NewState()
		state.Start()
		before := state

		for _, cell := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}} {
			err := state.Claim(Player1, cell[0], cell[1])

			require.ErrorIs(t, err, apperror.ErrInvalidCell)
			assert.Equal(t, before, state)
		}
	})

	t.Run("Error when the game is not running", func(t *testing.T) {
		// Given: a game that was never started
		state := NewState()

		// When: Player1 tries to move
		err := state.Claim(Player1, 0, 0)

		// Then: ErrGameIsNotStarted is returned
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
		assert.Equal(t, None, state.Board[0][0])
	})

	t.Run("Winning claim ends the game", func(t *testing.T) {
		// Given: Player1 owns two cells of the first row
		state := NewState()
		state.Start()
		moves := []struct {
			role Owner
			x, y int
		}{
			{Player1, 0, 0},
			{Player2, 1, 0},
			{Player1, 0, 1},
			{Player2, 2, 0},
		}
		for _, m := range moves {
			require.NoError(t, state.Claim(m.role, m.x, m.y))
		}

		// When: Player1 completes the row
		require.NoError(t, state.Claim(Player1, 0, 2))

		// Then: Player1 wins and the game stops
		assert.False(t, state.Playing)
		assert.Equal(t, Player1, state.Winner)
	})

	t.Run("Cells never change owner and turns strictly alternate", func(t *testing.T) {
		state := NewState()
		state.Start()

		// x o x / x o o / o x x, played in an order that never completes a line
		order := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}
		expected := Player1
		for _, cell := range order {
			require.True(t, state.Playing)
			require.Equal(t, expected, state.CurrentPlayer)

			snapshot := state.Board
			require.NoError(t, state.Claim(expected, cell[0], cell[1]))

			for i := range snapshot {
				for j := range snapshot[i] {
					if snapshot[i][j] != None {
						assert.Equal(t, snapshot[i][j], state.Board[i][j])
					}
				}
			}
			expected = expected.Opponent()
		}

		// Then: the full board is a tie
		assert.False(t, state.Playing)
		assert.Equal(t, None, state.Winner)
	})
}
