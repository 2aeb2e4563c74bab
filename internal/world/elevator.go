package world

import (
	"go.uber.org/zap"
)

// ElevatorState is the combined door/motion state of the cabin.
type ElevatorState int

const (
	Idle ElevatorState = iota
	MovingUp
	MovingDown
	OpeningDoors
	ClosingDoors
	DoorsOpen
)

func (s ElevatorState) String() string {
	switch s {
	case Idle:
		return "idle"
	case MovingUp:
		return "moving_up"
	case MovingDown:
		return "moving_down"
	case OpeningDoors:
		return "opening_doors"
	case ClosingDoors:
		return "closing_doors"
	case DoorsOpen:
		return "doors_open"
	}
	return "unknown"
}

// Elevator is the building elevator: a door/motion state machine with a FIFO
// call queue. Its timers run on real dt, independent of the virtual clock.
//
// Invariants: motion states always hold a targetFloor different from
// currentFloor; Idle and DoorsOpen have no motion pending; floorsVisited and
// totalUses only grow.
type Elevator struct {
	log *zap.Logger

	minFloor int
	maxFloor int

	currentFloor int
	targetFloor  int
	state        ElevatorState

	animationTime         float64
	doorAnimationDuration float64
	floorTravelTime       float64

	// Fractional floor for smooth cabin animation across multi-floor hops.
	displayFloor float64

	queue []int

	// Callbacks supplied by the owning session, invoked synchronously.
	OnFloorReached func(floor int)
	OnDoorsOpened  func()
	OnDoorsClosed  func()

	totalUses     int
	floorsVisited map[int]struct{}
}

// NewElevator builds an idle elevator at startFloor. travelTime is seconds
// per floor; doorDuration is seconds per door animation.
func NewElevator(startFloor, minFloor, maxFloor int, travelTime, doorDuration float64, log *zap.Logger) *Elevator {
	e := &Elevator{
		log:                   log,
		minFloor:              minFloor,
		maxFloor:              maxFloor,
		currentFloor:          startFloor,
		targetFloor:           startFloor,
		state:                 Idle,
		doorAnimationDuration: doorDuration,
		floorTravelTime:       travelTime,
		displayFloor:          float64(startFloor),
		floorsVisited:         make(map[int]struct{}),
	}
	log.Info("elevator initialized",
		zap.Int("floor", startFloor),
		zap.Int("min", minFloor),
		zap.Int("max", maxFloor))
	return e
}

// Call summons the elevator to a floor (hall call). Calling the current
// floor while idle opens the doors directly. Calls are queued FIFO and
// deduplicated. Returns false for floors outside the building.
func (e *Elevator) Call(floor int) bool {
	if !e.validFloor(floor) {
		e.log.Warn("call to invalid floor", zap.Int("floor", floor))
		return false
	}

	if floor == e.currentFloor && e.state == Idle {
		e.startOpeningDoors()
		return true
	}

	if !e.queued(floor) {
		e.queue = append(e.queue, floor)
		e.log.Info("elevator called", zap.Int("floor", floor))
	}
	if e.state == Idle {
		e.processNextCall()
	}
	return true
}

// GoTo selects a floor from inside the cabin. It takes absolute priority:
// the pending queue is dropped and only this floor remains. Doors close
// first if open. Each GoTo counts as one use. Returns false for floors
// outside the building.
func (e *Elevator) GoTo(floor int) bool {
	if !e.validFloor(floor) {
		return false
	}

	e.queue = e.queue[:0]
	e.queue = append(e.queue, floor)

	switch e.state {
	case DoorsOpen:
		e.startClosingDoors()
	case Idle:
		e.processNextCall()
	}

	e.totalUses++
	e.log.Info("elevator going to floor", zap.Int("floor", floor))
	return true
}

// Update advances the state machine by dt real seconds.
func (e *Elevator) Update(dt float64) {
	e.animationTime += dt

	switch e.state {
	case MovingUp, MovingDown:
		e.updateMoving()
	case OpeningDoors:
		if e.animationTime >= e.doorAnimationDuration {
			e.state = DoorsOpen
			if e.OnDoorsOpened != nil {
				e.OnDoorsOpened()
			}
			e.log.Debug("elevator doors opened", zap.Int("floor", e.currentFloor))
		}
	case ClosingDoors:
		if e.animationTime >= e.doorAnimationDuration {
			e.state = Idle
			if e.OnDoorsClosed != nil {
				e.OnDoorsClosed()
			}
			e.log.Debug("elevator doors closed", zap.Int("floor", e.currentFloor))
			if len(e.queue) > 0 {
				e.processNextCall()
			}
		}
	case DoorsOpen:
		// Held open until explicitly closed.
	case Idle:
		if len(e.queue) > 0 {
			e.processNextCall()
		}
	}
}

func (e *Elevator) updateMoving() {
	floors := e.targetFloor - e.currentFloor
	if floors < 0 {
		floors = -floors
	}
	total := float64(floors) * e.floorTravelTime

	if e.animationTime >= total {
		e.currentFloor = e.targetFloor
		e.displayFloor = float64(e.currentFloor)
		e.floorsVisited[e.currentFloor] = struct{}{}
		e.startOpeningDoors()
		if e.OnFloorReached != nil {
			e.OnFloorReached(e.currentFloor)
		}
		return
	}

	progress := e.animationTime / total
	e.displayFloor = Lerp(float64(e.currentFloor), float64(e.targetFloor), progress)
}

func (e *Elevator) processNextCall() {
	if len(e.queue) == 0 {
		return
	}
	next := e.queue[0]
	e.queue = e.queue[1:]

	if next == e.currentFloor {
		e.startOpeningDoors()
		return
	}

	e.targetFloor = next
	e.animationTime = 0
	if next > e.currentFloor {
		e.state = MovingUp
		e.log.Info("elevator moving up",
			zap.Int("from", e.currentFloor),
			zap.Int("to", next))
	} else {
		e.state = MovingDown
		e.log.Info("elevator moving down",
			zap.Int("from", e.currentFloor),
			zap.Int("to", next))
	}
}

func (e *Elevator) startOpeningDoors() {
	e.state = OpeningDoors
	e.animationTime = 0
}

func (e *Elevator) startClosingDoors() {
	e.state = ClosingDoors
	e.animationTime = 0
}

// ForceCloseDoors starts closing the doors if they are open.
func (e *Elevator) ForceCloseDoors() bool {
	if e.state == DoorsOpen {
		e.startClosingDoors()
		return true
	}
	return false
}

func (e *Elevator) validFloor(floor int) bool {
	return floor >= e.minFloor && floor <= e.maxFloor
}

func (e *Elevator) queued(floor int) bool {
	for _, f := range e.queue {
		if f == floor {
			return true
		}
	}
	return false
}

// ── Queries ───────────────────────────────────────────────────────

// IsAtFloor reports whether the cabin is stationary at the given floor.
func (e *Elevator) IsAtFloor(floor int) bool {
	if e.currentFloor != floor {
		return false
	}
	switch e.state {
	case Idle, DoorsOpen, OpeningDoors, ClosingDoors:
		return true
	}
	return false
}

func (e *Elevator) IsMoving() bool {
	return e.state == MovingUp || e.state == MovingDown
}

func (e *Elevator) AreDoorsOpen() bool { return e.state == DoorsOpen }

// CanEnter is true only while the doors are fully open.
func (e *Elevator) CanEnter() bool { return e.state == DoorsOpen }

func (e *Elevator) CurrentFloor() int    { return e.currentFloor }
func (e *Elevator) State() ElevatorState { return e.state }
func (e *Elevator) QueueLength() int     { return len(e.queue) }

// TargetFloor returns the destination while moving.
func (e *Elevator) TargetFloor() (int, bool) {
	if e.IsMoving() {
		return e.targetFloor, true
	}
	return 0, false
}

// DisplayPosition returns the interpolated fractional floor for animation.
func (e *Elevator) DisplayPosition() float64 { return e.displayFloor }

// DoorAnimationProgress returns the door animation progress in [0,1]:
// 0 closed, 1 fully open, partial while animating.
func (e *Elevator) DoorAnimationProgress() float64 {
	switch e.state {
	case OpeningDoors, ClosingDoors:
		return Clamp(e.animationTime/e.doorAnimationDuration, 0, 1)
	case DoorsOpen:
		return 1
	}
	return 0
}

// ClearQueue drops all pending calls.
func (e *Elevator) ClearQueue() {
	e.queue = e.queue[:0]
	e.log.Debug("elevator queue cleared")
}

// ElevatorStats is the usage summary for the end-of-day report.
type ElevatorStats struct {
	TotalUses     int
	FloorsVisited int
	CurrentFloor  int
	State         string
	QueueLength   int
}

func (e *Elevator) Stats() ElevatorStats {
	return ElevatorStats{
		TotalUses:     e.totalUses,
		FloorsVisited: len(e.floorsVisited),
		CurrentFloor:  e.currentFloor,
		State:         e.state.String(),
		QueueLength:   len(e.queue),
	}
}
