package world

import (
	"testing"

	"go.uber.org/zap"
)

const (
	testTravelTime = 2.0
	testDoorTime   = 1.0
)

func newElevator() *Elevator {
	return NewElevator(90, 90, 98, testTravelTime, testDoorTime, zap.NewNop())
}

// advance ticks the elevator in 0.25s steps for the given number of seconds.
// 0.25 is binary-exact, so the accumulated time never drifts.
func advance(e *Elevator, seconds float64) {
	steps := int(seconds / 0.25)
	for i := 0; i < steps; i++ {
		e.Update(0.25)
	}
}

func TestCallTwoFloorsUp(t *testing.T) {
	e := newElevator()
	if e.State() != Idle || e.CurrentFloor() != 90 {
		t.Fatalf("start state = %v at %d, want idle at 90", e.State(), e.CurrentFloor())
	}

	if !e.Call(92) {
		t.Fatal("call returned false")
	}
	if e.State() != MovingUp {
		t.Fatalf("state after call = %v, want moving_up", e.State())
	}

	// Two floors of travel plus one door animation.
	advance(e, 2*testTravelTime+testDoorTime+0.25)
	if e.CurrentFloor() != 92 {
		t.Fatalf("floor = %d, want 92", e.CurrentFloor())
	}
	if e.State() != DoorsOpen {
		t.Fatalf("state = %v, want doors_open", e.State())
	}
	if !e.CanEnter() {
		t.Fatal("CanEnter false with doors open")
	}
}

func TestCallSameFloorOpensDoors(t *testing.T) {
	e := newElevator()
	if !e.Call(90) {
		t.Fatal("call returned false")
	}
	if e.State() != OpeningDoors {
		t.Fatalf("state = %v, want opening_doors", e.State())
	}
	advance(e, testDoorTime+0.25)
	if e.State() != DoorsOpen {
		t.Fatalf("state = %v, want doors_open", e.State())
	}
}

func TestInvalidFloorsRejected(t *testing.T) {
	e := newElevator()
	if e.Call(89) || e.Call(99) {
		t.Fatal("call accepted a floor outside the building")
	}
	if e.GoTo(89) || e.GoTo(99) {
		t.Fatal("goto accepted a floor outside the building")
	}
	if e.State() != Idle || e.QueueLength() != 0 {
		t.Fatalf("rejected floors changed state: %v queue=%d", e.State(), e.QueueLength())
	}
}

func TestQueueDedup(t *testing.T) {
	e := newElevator()
	e.Call(95)
	e.Call(97)
	e.Call(97)
	e.Call(97)
	// 95 is already in flight; only 97 remains queued, once.
	if e.QueueLength() != 1 {
		t.Fatalf("queue length = %d, want 1", e.QueueLength())
	}
}

func TestQueueServedInOrder(t *testing.T) {
	e := newElevator()
	e.Call(92)
	e.Call(91)

	advance(e, 2*testTravelTime+testDoorTime+0.25)
	if e.CurrentFloor() != 92 || e.State() != DoorsOpen {
		t.Fatalf("first stop: floor %d state %v", e.CurrentFloor(), e.State())
	}

	// Doors do not close on their own; the next call waits.
	advance(e, 10)
	if e.CurrentFloor() != 92 {
		t.Fatal("elevator left with doors open")
	}

	e.ForceCloseDoors()
	advance(e, testDoorTime+testTravelTime+testDoorTime+0.5)
	if e.CurrentFloor() != 91 || e.State() != DoorsOpen {
		t.Fatalf("second stop: floor %d state %v", e.CurrentFloor(), e.State())
	}
}

func TestGoToPreemptsQueue(t *testing.T) {
	e := newElevator()
	e.Call(92)
	e.Call(95)
	e.Call(97)

	if !e.GoTo(91) {
		t.Fatal("goto returned false")
	}
	// Pending hall calls are dropped; only the cabin selection remains. The
	// floor already in flight still finishes.
	if e.QueueLength() != 1 {
		t.Fatalf("queue length after goto = %d, want 1", e.QueueLength())
	}

	// The hop to 92 completes and the doors hold open there, 91 still queued.
	advance(e, 2*testTravelTime+testDoorTime+0.25)
	if e.CurrentFloor() != 92 || e.State() != DoorsOpen {
		t.Fatalf("in-flight stop: floor %d state %v", e.CurrentFloor(), e.State())
	}
	if e.QueueLength() != 1 {
		t.Fatalf("queue length at held stop = %d, want 1", e.QueueLength())
	}

	// Closing the doors releases the cabin selection.
	e.ForceCloseDoors()
	advance(e, testDoorTime+testTravelTime+testDoorTime+0.5)
	if e.CurrentFloor() != 91 || e.State() != DoorsOpen {
		t.Fatalf("final stop: floor %d state %v", e.CurrentFloor(), e.State())
	}
}

func TestGoToWithDoorsOpenClosesFirst(t *testing.T) {
	e := newElevator()
	e.Call(90)
	advance(e, testDoorTime+0.25)
	if e.State() != DoorsOpen {
		t.Fatalf("setup failed: state %v", e.State())
	}

	e.GoTo(93)
	if e.State() != ClosingDoors {
		t.Fatalf("state after goto = %v, want closing_doors", e.State())
	}
	advance(e, testDoorTime+3*testTravelTime+testDoorTime+0.5)
	if e.CurrentFloor() != 93 || e.State() != DoorsOpen {
		t.Fatalf("floor %d state %v, want 93 doors_open", e.CurrentFloor(), e.State())
	}
}

// From any reachable state, repeated updates settle into idle or doors_open
// with nothing queued.
func TestMachineAlwaysSettles(t *testing.T) {
	scenarios := map[string]func(e *Elevator){
		"single call":    func(e *Elevator) { e.Call(97) },
		"call then goto": func(e *Elevator) { e.Call(95); advance(e, 1); e.GoTo(91) },
		"same floor":     func(e *Elevator) { e.Call(90) },
		"force close":    func(e *Elevator) { e.Call(90); advance(e, 2); e.ForceCloseDoors() },
		"queue of three": func(e *Elevator) { e.Call(92); e.Call(94); e.Call(91) },
	}
	for name, setup := range scenarios {
		e := newElevator()
		setup(e)
		for i := 0; i < 2000; i++ {
			e.Update(0.25)
			if e.AreDoorsOpen() {
				e.ForceCloseDoors()
			}
		}
		if e.State() != Idle && e.State() != DoorsOpen {
			t.Fatalf("%s: stuck in %v", name, e.State())
		}
		if e.QueueLength() != 0 {
			t.Fatalf("%s: queue not drained, %d left", name, e.QueueLength())
		}
	}
}

func TestDisplayPositionInterpolates(t *testing.T) {
	e := newElevator()
	e.Call(92)

	// Halfway through a two-floor trip.
	advance(e, testTravelTime)
	pos := e.DisplayPosition()
	if pos <= 90 || pos >= 92 {
		t.Fatalf("display position = %v, want strictly between 90 and 92", pos)
	}

	advance(e, testTravelTime+0.25)
	if e.DisplayPosition() != 92 {
		t.Fatalf("display position = %v after arrival, want 92", e.DisplayPosition())
	}
}

func TestDoorAnimationProgress(t *testing.T) {
	e := newElevator()
	if e.DoorAnimationProgress() != 0 {
		t.Fatal("closed doors should report 0")
	}
	e.Call(90)
	advance(e, 0.5)
	if p := e.DoorAnimationProgress(); p <= 0 || p >= 1 {
		t.Fatalf("mid-animation progress = %v, want in (0,1)", p)
	}
	advance(e, testDoorTime)
	if e.DoorAnimationProgress() != 1 {
		t.Fatal("open doors should report 1")
	}
}

func TestForceCloseOnlyWhenOpen(t *testing.T) {
	e := newElevator()
	if e.ForceCloseDoors() {
		t.Fatal("closed doors on an idle elevator")
	}
	e.Call(90)
	advance(e, testDoorTime+0.25)
	if !e.ForceCloseDoors() {
		t.Fatal("force close failed with doors open")
	}
	advance(e, testDoorTime+0.25)
	if e.State() != Idle {
		t.Fatalf("state = %v after closing, want idle", e.State())
	}
}

func TestTargetFloorQuery(t *testing.T) {
	e := newElevator()
	if _, ok := e.TargetFloor(); ok {
		t.Fatal("idle elevator reported a target")
	}
	e.Call(95)
	if target, ok := e.TargetFloor(); !ok || target != 95 {
		t.Fatalf("target = %d,%v want 95,true", target, ok)
	}
}

func TestStatsAccumulate(t *testing.T) {
	e := newElevator()
	e.Call(92)
	advance(e, 60)
	e.ForceCloseDoors()
	advance(e, 2)
	e.GoTo(95)
	advance(e, 60)

	st := e.Stats()
	if st.TotalUses != 1 {
		t.Fatalf("total uses = %d, want 1 (only cabin selections count)", st.TotalUses)
	}
	if st.FloorsVisited != 2 {
		t.Fatalf("floors visited = %d, want 2", st.FloorsVisited)
	}
	if st.CurrentFloor != 95 {
		t.Fatalf("current floor = %d, want 95", st.CurrentFloor)
	}
}

func TestCallbacksFire(t *testing.T) {
	e := newElevator()
	var reached []int
	opened, closed := 0, 0
	e.OnFloorReached = func(f int) { reached = append(reached, f) }
	e.OnDoorsOpened = func() { opened++ }
	e.OnDoorsClosed = func() { closed++ }

	e.Call(92)
	advance(e, 2*testTravelTime+testDoorTime+0.25)
	e.ForceCloseDoors()
	advance(e, testDoorTime+0.25)

	if len(reached) != 1 || reached[0] != 92 {
		t.Fatalf("reached = %v, want [92]", reached)
	}
	if opened != 1 || closed != 1 {
		t.Fatalf("opened=%d closed=%d, want 1 each", opened, closed)
	}
}
