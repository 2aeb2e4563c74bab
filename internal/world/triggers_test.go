package world

import (
	"testing"

	"go.uber.org/zap"
)

func newTriggerManager() *TriggerManager {
	return NewTriggerManager(zap.NewNop())
}

func zone(x, y, w, h float64) Condition {
	return Condition{Kind: EnterZone, Zone: &Rect{X: x, Y: y, W: w, H: h}}
}

var noTasks = map[string]bool{}

func TestEnterZoneFiresOnEdgeOnly(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	tr := NewTrigger("lobby", zone(0, 0, 100, 100), func(*Trigger) { fired++ }, true)
	m.Add(tr)

	outside := Vec2{X: 500, Y: 500}
	inside := Vec2{X: 50, Y: 50}

	m.Update(0.016, outside, 90, "08:30", noTasks)
	m.Update(0.016, inside, 90, "08:30", noTasks)
	m.Update(0.016, inside, 90, "08:30", noTasks) // still inside: no re-fire
	if fired != 1 {
		t.Fatalf("fired %d times, want 1 (edge only)", fired)
	}

	// Leave and re-enter: repeatable trigger fires again.
	m.Update(0.016, outside, 90, "08:30", noTasks)
	m.Update(0.016, inside, 90, "08:30", noTasks)
	if fired != 2 {
		t.Fatalf("fired %d times after re-entry, want 2", fired)
	}
}

func TestExitZoneFiresOnLeaving(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	cond := zone(0, 0, 100, 100)
	cond.Kind = ExitZone
	m.Add(NewTrigger("leave_desk", cond, func(*Trigger) { fired++ }, false))

	m.Update(0.016, Vec2{X: 50, Y: 50}, 90, "08:30", noTasks)
	if fired != 0 {
		t.Fatal("exit trigger fired while entering")
	}
	m.Update(0.016, Vec2{X: 500, Y: 500}, 90, "08:30", noTasks)
	if fired != 1 {
		t.Fatalf("fired %d times, want 1 on exit edge", fired)
	}
}

func TestStayInZoneAccumulatesAndResetsOnExit(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	cond := Condition{
		Kind:         StayInZone,
		Center:       &Vec2{X: 0, Y: 0},
		Radius:       10,
		StayDuration: 1.0,
	}
	m.Add(NewTrigger("linger", cond, func(*Trigger) { fired++ }, false))

	in := Vec2{X: 1, Y: 1}
	out := Vec2{X: 100, Y: 100}

	// 0.75s inside, leave, come back: accumulator must restart from zero.
	for i := 0; i < 3; i++ {
		m.Update(0.25, in, 90, "08:30", noTasks)
	}
	m.Update(0.25, out, 90, "08:30", noTasks)
	for i := 0; i < 3; i++ {
		m.Update(0.25, in, 90, "08:30", noTasks)
	}
	if fired != 0 {
		t.Fatalf("fired %d times before full dwell, want 0", fired)
	}
	m.Update(0.25, in, 90, "08:30", noTasks)
	if fired != 1 {
		t.Fatalf("fired %d times after full dwell, want 1", fired)
	}
}

func TestTimeMatch(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	m.Add(NewTrigger("warning", Condition{Kind: TimeMatch, Time: "08:45"}, func(*Trigger) { fired++ }, false))

	m.Update(0.016, Vec2{}, 90, "08:44", noTasks)
	m.Update(0.016, Vec2{}, 90, "08:45", noTasks)
	m.Update(0.016, Vec2{}, 90, "08:45", noTasks) // one-shot latched
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
}

func TestTaskCompletedCondition(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	m.Add(NewTrigger("boss_reacts", Condition{Kind: TaskCompleted, TaskID: "M1"}, func(*Trigger) { fired++ }, false))

	m.Update(0.016, Vec2{}, 90, "08:30", map[string]bool{})
	m.Update(0.016, Vec2{}, 90, "08:30", map[string]bool{"M1": true})
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
}

func TestFloorScoping(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	m.AddToFloor(97, NewTrigger("printer_zone", zone(0, 0, 100, 100), func(*Trigger) { fired++ }, true))

	inside := Vec2{X: 50, Y: 50}
	m.Update(0.016, inside, 93, "08:30", noTasks) // wrong floor
	if fired != 0 {
		t.Fatal("floor-scoped trigger fired on another floor")
	}
	m.Update(0.016, inside, 97, "08:30", noTasks)
	if fired != 1 {
		t.Fatalf("fired %d times on its floor, want 1", fired)
	}
}

func TestInteractNearNeverFiresPassively(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	cond := Condition{Kind: InteractNear, Center: &Vec2{X: 0, Y: 0}, Radius: 40}
	m.Add(NewTrigger("coffee_machine", cond, func(*Trigger) { fired++ }, true))

	at := Vec2{X: 5, Y: 5}
	for i := 0; i < 10; i++ {
		m.Update(0.016, at, 90, "08:30", noTasks)
	}
	if fired != 0 {
		t.Fatal("interaction trigger fired from the passive poll")
	}

	got := m.TriggerInteractionNear(at, 90, 50)
	if len(got) != 1 || got[0] != "coffee_machine" {
		t.Fatalf("interaction fired %v, want [coffee_machine]", got)
	}
	if fired != 1 {
		t.Fatalf("callback ran %d times, want 1", fired)
	}

	// Out of reach: nothing fires.
	if got := m.TriggerInteractionNear(Vec2{X: 500, Y: 500}, 90, 50); len(got) != 0 {
		t.Fatalf("interaction fired %v out of reach", got)
	}
}

func TestNonRepeatableLatchShortCircuits(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	tr := NewTrigger("once", zone(0, 0, 100, 100), func(*Trigger) { fired++ }, false)
	m.Add(tr)

	in := Vec2{X: 50, Y: 50}
	out := Vec2{X: 500, Y: 500}
	m.Update(0.016, in, 90, "08:30", noTasks)
	// Leave and re-enter: the consumed trigger is skipped entirely, latch
	// state untouched.
	m.Update(0.016, out, 90, "08:30", noTasks)
	m.Update(0.016, in, 90, "08:30", noTasks)
	if fired != 1 {
		t.Fatalf("non-repeatable trigger fired %d times", fired)
	}
	if !tr.Triggered() {
		t.Fatal("triggered flag not latched")
	}
}

func TestDeactivateAndReset(t *testing.T) {
	m := newTriggerManager()
	fired := 0
	m.Add(NewTrigger("once", Condition{Kind: TimeMatch, Time: "08:31"}, func(*Trigger) { fired++ }, false))

	m.Deactivate("once")
	m.Update(0.016, Vec2{}, 90, "08:31", noTasks)
	if fired != 0 {
		t.Fatal("deactivated trigger fired")
	}
	m.Activate("once")
	m.Update(0.016, Vec2{}, 90, "08:31", noTasks)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	m.ResetTrigger("once")
	m.Update(0.016, Vec2{}, 90, "08:31", noTasks)
	if fired != 2 {
		t.Fatalf("reset trigger did not rearm, fired = %d", fired)
	}
}

func TestRemoveAndStats(t *testing.T) {
	m := newTriggerManager()
	m.Add(NewTrigger("a", Condition{Kind: TimeMatch, Time: "08:31"}, nil, false))
	m.AddToFloor(97, NewTrigger("b", zone(0, 0, 10, 10), nil, false))

	if !m.Remove("a") {
		t.Fatal("remove existing trigger failed")
	}
	if m.Remove("a") {
		t.Fatal("remove reported success twice")
	}
	st := m.Stats()
	if st.Total != 1 || st.ByKind["enter_zone"] != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
