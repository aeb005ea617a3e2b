package apperror

import "errors"

var (
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell")
	ErrNotInGame        = errors.New("participant is not in the game")

	ErrSessionFull      = errors.New("session already has two players")
	ErrGameNeedsPlayers = errors.New("game needs player(s)")
	ErrNoGameToEnd      = errors.New("there is no game to properly end")
)
