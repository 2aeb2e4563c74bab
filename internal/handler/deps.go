package handler

import (
	"go.uber.org/zap"

	"github.com/officeday/server/internal/core/clock"
	"github.com/officeday/server/internal/core/event"
	"github.com/officeday/server/internal/world"
)

// Deps bundles what every handler needs. Handlers run synchronously inside
// the simulation loop, on the bus's dispatch stack.
type Deps struct {
	Bus   *event.Bus
	Clock *clock.Clock
	State *world.State
	Log   *zap.Logger
}
