package events

// Generation outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Layout outcomes.
const (
	LayoutOK         = "ok"
	LayoutEmpty      = "empty"
	LayoutDegenerate = "degenerate"
)

// GeneratedEvent is published when a generation request completes.
type GeneratedEvent struct {
	SessionID string
	Outcome   string
	Schedules int
	Conflicts int
}

// LockEvent is published when a section lock is toggled.
type LockEvent struct {
	SessionID string
	SectionID string
	Locked    bool
	Filtered  int
}

// LayoutEvent is published each time a session lays out its current schedule.
type LayoutEvent struct {
	SessionID  string
	Outcome    string
	Placements int
	Dropped    int
}
