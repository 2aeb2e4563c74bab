package system

import (
	"github.com/officeday/server/internal/core/clock"
	coresys "github.com/officeday/server/internal/core/system"
)

// ClockSystem advances the virtual workday clock. Runs first so every later
// system in the same tick sees the updated time.
type ClockSystem struct {
	clock *clock.Clock
}

func NewClockSystem(c *clock.Clock) *ClockSystem {
	return &ClockSystem{clock: c}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(dt float64) {
	s.clock.Tick(dt)
}
