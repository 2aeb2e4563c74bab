package system

import (
	coresys "github.com/officeday/server/internal/core/system"
	"github.com/officeday/server/internal/world"
)

// ElevatorSystem steps the elevator's door and motion timers on real dt. The
// cabin runs on wall time, not the virtual clock.
type ElevatorSystem struct {
	elevator *world.Elevator
}

func NewElevatorSystem(e *world.Elevator) *ElevatorSystem {
	return &ElevatorSystem{elevator: e}
}

func (s *ElevatorSystem) Phase() coresys.Phase { return coresys.PhaseWorld }

func (s *ElevatorSystem) Update(dt float64) {
	s.elevator.Update(dt)
}
