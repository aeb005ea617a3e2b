package entity

// SessionStatus is a point-in-time view of one session, keyed by its listening port.
type SessionStatus struct {
	Port          int      `json:"port"`
	Recruiting    bool     `json:"recruiting"`
	Playing       bool     `json:"playing"`
	Players       []Player `json:"players"`
	CurrentPlayer Owner    `json:"current_player"`
	Winner        Owner    `json:"winner"`
	Board         Board    `json:"board"`
}
