package world

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlayerInfo is the player's position in the building.
type PlayerInfo struct {
	X     float64
	Y     float64
	Floor int
}

func (p PlayerInfo) Pos() Vec2 { return Vec2{X: p.X, Y: p.Y} }

// Toast is a transient on-screen notification queued for the presentation
// layer.
type Toast struct {
	Message string
	Kind    string
}

// State is the mutable session state: the player, story flags, pending
// notifications and the world subsystems. It is accessed only from the
// simulation loop goroutine, so no locks are needed.
type State struct {
	RunID  string
	Player PlayerInfo

	Tasks    *TaskManager
	Triggers *TriggerManager
	Elevator *Elevator

	flags  map[string]struct{}
	toasts []Toast

	log *zap.Logger
}

func NewState(tasks *TaskManager, triggers *TriggerManager, elevator *Elevator, log *zap.Logger) *State {
	return &State{
		RunID:    uuid.NewString(),
		Tasks:    tasks,
		Triggers: triggers,
		Elevator: elevator,
		flags:    make(map[string]struct{}),
		log:      log,
	}
}

// SetFlag raises a story flag. Returns false if it was already set.
func (s *State) SetFlag(name string) bool {
	if _, ok := s.flags[name]; ok {
		return false
	}
	s.flags[name] = struct{}{}
	s.log.Debug("flag set", zap.String("flag", name))
	return true
}

func (s *State) ClearFlag(name string) {
	delete(s.flags, name)
}

func (s *State) HasFlag(name string) bool {
	_, ok := s.flags[name]
	return ok
}

func (s *State) FlagCount() int { return len(s.flags) }

// PushToast queues a notification for the presentation layer.
func (s *State) PushToast(message, kind string) {
	s.toasts = append(s.toasts, Toast{Message: message, Kind: kind})
}

// DrainToasts returns the queued notifications and clears the queue.
func (s *State) DrainToasts() []Toast {
	out := s.toasts
	s.toasts = nil
	return out
}

// MovePlayer places the player on the current floor.
func (s *State) MovePlayer(x, y float64) {
	s.Player.X = x
	s.Player.Y = y
}

// SetFloor moves the player to another floor.
func (s *State) SetFloor(floor int) {
	if floor == s.Player.Floor {
		return
	}
	s.log.Info("player changed floor",
		zap.Int("from", s.Player.Floor),
		zap.Int("to", floor))
	s.Player.Floor = floor
}
