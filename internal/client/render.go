package client

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/protocol"
)

const cellWidth = 7

var (
	blankArt = []string{
		"       ", "       ", "       ", "       ", "       ", "       ", "       ",
	}
	xArt = []string{
		"       ", " o   o ", "  o o  ", "   o   ", "  o o  ", " o   o ", "       ",
	}
	oArt = []string{
		"       ", "  ooo  ", " o   o ", " o   o ", " o   o ", "  ooo  ", "       ",
	}
)

// numpad maps keypad digits onto cells so the board reads like a numeric keypad.
var numpad = map[int][2]int{
	7: {0, 0}, 8: {0, 1}, 9: {0, 2},
	4: {1, 0}, 5: {1, 1}, 6: {1, 2},
	1: {2, 0}, 2: {2, 1}, 3: {2, 2},
}

// NumpadCell - returns the cell for a keypad digit from 1 to 9.
func NumpadCell(digit int) (int, int, bool) {
	cell, ok := numpad[digit]

	return cell[0], cell[1], ok
}

// Render - draws the board and the game status as seen by update's viewer.
func Render(update protocol.Update) string {
	name := func(role entity.Owner) string {
		if role == update.ViewerID {
			return "you"
		}

		return "your opponent"
	}

	var b strings.Builder

	header := "Player 1 (Xs, " + name(entity.Player1) + ") vs Player 2 (Os, " + name(entity.Player2) + ")"
	line := strings.Repeat("*", len(header))

	b.WriteString("\n" + line + "\n" + header + "\n" + line + "\n\n")
	b.WriteString(drawBoard(update.Board))
	b.WriteString("\n")

	if update.Playing && update.CurrentPlayer == update.ViewerID {
		b.WriteString("Type a digit from your numeric pad (numpad) to choose a cell.\n")
		b.WriteString("Digits correspond to cells so that the game board resembles the numpad.\n\n")
	}

	switch {
	case update.Playing:
		b.WriteString("Waiting for " + name(update.CurrentPlayer) + " to move")
	case update.Winner == entity.None:
		b.WriteString("GAME OVER, you tied!")
	case update.Winner == update.ViewerID:
		b.WriteString("GAME OVER, you won!")
	default:
		b.WriteString("GAME OVER, you lost!")
	}

	b.WriteString("\n\n")

	return b.String()
}

func drawBoard(board entity.Board) string {
	var b strings.Builder

	for x := range board {
		if x > 0 {
			b.WriteString(strings.Repeat("-", entity.BoardSide*cellWidth+entity.BoardSide-1) + "\n")
		}

		for row := range cellWidth {
			for y := range board[x] {
				if y > 0 {
					b.WriteByte('|')
				}

				b.WriteString(art(board[x][y])[row])
			}

			b.WriteByte('\n')
		}
	}

	return b.String()
}

func art(owner entity.Owner) []string {
	switch owner {
	case entity.Player1:
		return xArt
	case entity.Player2:
		return oArt
	default:
		return blankArt
	}
}
