package system

import (
	"github.com/officeday/server/internal/core/clock"
	coresys "github.com/officeday/server/internal/core/system"
	"github.com/officeday/server/internal/core/timeline"
)

// TimelineSystem runs the timeline's catch-up scan after the clock has
// advanced. Entries the push path already fired are skipped inside the
// controller.
type TimelineSystem struct {
	timeline *timeline.Controller
	clock    *clock.Clock
}

func NewTimelineSystem(tc *timeline.Controller, c *clock.Clock) *TimelineSystem {
	return &TimelineSystem{timeline: tc, clock: c}
}

func (s *TimelineSystem) Phase() coresys.Phase { return coresys.PhaseTimeline }

func (s *TimelineSystem) Update(_ float64) {
	s.timeline.Update(s.clock)
}
