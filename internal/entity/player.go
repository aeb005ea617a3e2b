package entity

// Player is a seat in a session: the participant's ID and the role it holds
// for the lifetime of one game.
type Player struct {
	ID   string `json:"id"`
	Role Owner  `json:"role"`
}
