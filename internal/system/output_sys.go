package system

import (
	"go.uber.org/zap"

	coresys "github.com/officeday/server/internal/core/system"
	"github.com/officeday/server/internal/world"
)

// OutputSystem drains queued toasts at the end of each tick and hands them to
// a sink. The default sink logs them; a frontend would render them instead.
type OutputSystem struct {
	state *world.State
	sink  func(world.Toast)
}

func NewOutputSystem(st *world.State, log *zap.Logger) *OutputSystem {
	return &OutputSystem{
		state: st,
		sink: func(t world.Toast) {
			log.Info("toast",
				zap.String("kind", t.Kind),
				zap.String("message", t.Message))
		},
	}
}

// SetSink replaces the toast sink.
func (s *OutputSystem) SetSink(fn func(world.Toast)) {
	if fn != nil {
		s.sink = fn
	}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ float64) {
	for _, t := range s.state.DrainToasts() {
		s.sink(t)
	}
}
