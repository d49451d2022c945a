package slideshow

import "fmt"

// Phase is the visual stage of the current section.
type Phase int

const (
	PhaseBlurred Phase = iota
	PhaseTransitioning
	PhaseClear
)

func (p Phase) String() string {
	switch p {
	case PhaseBlurred:
		return "blurred"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseClear:
		return "clear"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Status is the playback status.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Snapshot is a copy of the playback state.
type Snapshot struct {
	Index   int
	Section string
	Phase   Phase
	Status  Status
	// Cycles counts completed passes through the catalog.
	Cycles int
}

// Running reports whether playback is active.
func (s Snapshot) Running() bool {
	return s.Status == StatusPlaying
}
