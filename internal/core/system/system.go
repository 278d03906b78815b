package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents   Phase = iota // 0: deliver last tick's events
	PhaseSimulate              // 1: advance the arena
	PhaseOutput                // 2: redraw
	PhasePersist               // 3: flush run history
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseSimulate:
		return "simulate"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
