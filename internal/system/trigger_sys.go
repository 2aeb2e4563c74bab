package system

import (
	"github.com/officeday/server/internal/core/clock"
	coresys "github.com/officeday/server/internal/core/system"
	"github.com/officeday/server/internal/world"
)

// TriggerSystem polls trigger conditions after the world has moved, so zone
// checks and time matches see this tick's final positions and minute.
type TriggerSystem struct {
	state *world.State
	clock *clock.Clock
}

func NewTriggerSystem(st *world.State, c *clock.Clock) *TriggerSystem {
	return &TriggerSystem{state: st, clock: c}
}

func (s *TriggerSystem) Phase() coresys.Phase { return coresys.PhaseTriggers }

func (s *TriggerSystem) Update(dt float64) {
	s.state.Triggers.Update(dt,
		s.state.Player.Pos(),
		s.state.Player.Floor,
		s.clock.TimeString(),
		s.state.Tasks.CompletedIDs())
}
