package system

// Phase defines execution ordering within a single simulation tick.
type Phase int

const (
	PhaseClock    Phase = iota // 0: advance virtual time, emit minute events
	PhaseTimeline              // 1: fire due timeline entries
	PhaseWorld                 // 2: dt-driven machines (elevator)
	PhaseTriggers              // 3: poll trigger conditions
	PhaseOutput                // 4: drain toasts, flush outward feeds
)

// System is the interface every per-tick system implements. Update receives
// the real-time step in seconds.
type System interface {
	Phase() Phase
	Update(dt float64)
}
