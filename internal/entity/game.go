package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

const (
	BoardSide       = 3
	NumberOfPlayers = 2
)

// Owner is the holder of a board cell. The numeric values are part of the
// wire format and must not be reordered.
type Owner int

const (
	Player1 Owner = iota
	Player2
	None
)

func (that Owner) String() string {
	switch that {
	case Player1:
		return "player_1"
	case Player2:
		return "player_2"
	case None:
		return "none"
	default:
		return fmt.Sprintf("owner(%d)", int(that))
	}
}

// Valid reports whether the value is one of Player1, Player2 or None.
func (that Owner) Valid() bool {
	return that >= Player1 && that <= None
}

// IsPlayer reports whether the owner is one of the two roles.
func (that Owner) IsPlayer() bool {
	return that == Player1 || that == Player2
}

// Opponent - returns the other role. None has no opponent.
func (that Owner) Opponent() Owner {
	switch that {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return None
	}
}

// Number - returns the 1-based player number used in logs and on screen.
func (that Owner) Number() int {
	return int(that) + 1
}

type Board [BoardSide][BoardSide]Owner

func EmptyBoard() Board {
	var board Board
	board.Clear()

	return board
}

func (that *Board) Clear() {
	for x := range that {
		for y := range that[x] {
			that[x][y] = None
		}
	}
}

func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSide && y >= 0 && y < BoardSide
}

func (that *Board) EmptyCells() int {
	count := 0
	for x := range that {
		for y := range that[x] {
			if that[x][y] == None {
				count++
			}
		}
	}

	return count
}

// Line is a winning line: a starting cell walked BoardSide times along (DX, DY).
type Line struct {
	X, Y   int
	DX, DY int
}

var WinLines = [...]Line{
	{X: 0, Y: 0, DX: 0, DY: 1},
	{X: 1, Y: 0, DX: 0, DY: 1},
	{X: 2, Y: 0, DX: 0, DY: 1},
	{X: 0, Y: 0, DX: 1, DY: 0},
	{X: 0, Y: 1, DX: 1, DY: 0},
	{X: 0, Y: 2, DX: 1, DY: 0},
	{X: 0, Y: 0, DX: 1, DY: 1},
	{X: 0, Y: BoardSide - 1, DX: 1, DY: -1},
}

// OwnerOn - returns the player lying over every cell of the line, or None.
func (that *Board) OwnerOn(line Line) Owner {
	first := that[line.X][line.Y]
	if first == None {
		return None
	}

	for i := 1; i < BoardSide; i++ {
		x, y := line.X+i*line.DX, line.Y+i*line.DY
		if !InBounds(x, y) || that[x][y] != first {
			return None
		}
	}

	return first
}

// Evaluate - checks all winning lines and the remaining empty cells.
// over is true on a win or a tie; winner is None on a tie or while the game goes on.
func (that *Board) Evaluate() (Owner, bool) {
	winner := None
	for _, line := range WinLines {
		if owner := that.OwnerOn(line); owner != None && winner == None {
			winner = owner
		}
	}

	if winner != None {
		return winner, true
	}

	return None, that.EmptyCells() == 0
}

// State is the authoritative state of one game.
// CurrentPlayer is meaningful only while Playing is true.
type State struct {
	Playing       bool
	CurrentPlayer Owner
	Winner        Owner
	Board         Board
}

func NewState() State {
	return State{
		CurrentPlayer: Player1,
		Winner:        None,
		Board:         EmptyBoard(),
	}
}

// Start - clears the board and hands the first turn to Player1.
func (that *State) Start() {
	that.Board.Clear()
	that.CurrentPlayer = Player1
	that.Winner = None
	that.Playing = true
}

// Claim - gives the cell (x, y) to role if the move is legal and updates the game.
// On error the state is left untouched.
func (that *State) Claim(role Owner, x, y int) error {
	if !that.Playing {
		return apperror.ErrGameIsNotStarted
	}

	if role != that.CurrentPlayer {
		return apperror.ErrNotYourTurn
	}

	if !InBounds(x, y) {
		return fmt.Errorf("%w: %d, %d", apperror.ErrInvalidCell, x, y)
	}

	if that.Board[x][y] != None {
		return apperror.ErrCellOccupied
	}

	that.Board[x][y] = role
	that.update()

	return nil
}

func (that *State) update() {
	winner, over := that.Board.Evaluate()
	if over {
		that.Winner = winner
		that.Playing = false

		return
	}

	that.CurrentPlayer = that.CurrentPlayer.Opponent()
}
