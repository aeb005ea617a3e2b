package session

// Participant is one connected seat holder. The session calls these methods
// only from its own loop.
type Participant interface {
	// ID identifies the participant in logs and status snapshots.
	ID() string
	// Start begins receiving input; called once, right after admission.
	Start()
	// Deliver queues an encoded frame for the participant. It must not block.
	Deliver(frame []byte)
	// Close tears the participant down. Calling it twice is a no-op.
	Close()
}
