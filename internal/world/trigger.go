package world

import "go.uber.org/zap"

// TriggerKind enumerates the condition variants a trigger can carry.
type TriggerKind int

const (
	EnterZone TriggerKind = iota
	ExitZone
	StayInZone
	InteractNear
	TimeMatch
	TaskCompleted
)

func (k TriggerKind) String() string {
	switch k {
	case EnterZone:
		return "enter_zone"
	case ExitZone:
		return "exit_zone"
	case StayInZone:
		return "stay_in_zone"
	case InteractNear:
		return "interact_near"
	case TimeMatch:
		return "time_match"
	case TaskCompleted:
		return "task_completed"
	}
	return "unknown"
}

// TriggerKindFromString maps a data-file kind name to its TriggerKind.
func TriggerKindFromString(s string) (TriggerKind, bool) {
	switch s {
	case "enter_zone":
		return EnterZone, true
	case "exit_zone":
		return ExitZone, true
	case "stay_in_zone":
		return StayInZone, true
	case "interact_near":
		return InteractNear, true
	case "time_match", "time_based":
		return TimeMatch, true
	case "task_completed", "task_completion":
		return TaskCompleted, true
	}
	return 0, false
}

// Condition is the tagged variant behind a trigger. Exactly the fields for
// its Kind are meaningful; zone conditions use either Zone or Center+Radius.
type Condition struct {
	Kind TriggerKind

	Zone   *Rect
	Center *Vec2
	Radius float64

	Time         string  // TimeMatch: "HH:MM"
	TaskID       string  // TaskCompleted
	StayDuration float64 // StayInZone: seconds inside before firing
}

// contains reports whether pos is inside the condition's zone. A condition
// with no geometry contains nothing.
func (c *Condition) contains(pos Vec2) bool {
	if c.Zone != nil {
		return c.Zone.Contains(pos)
	}
	if c.Center != nil && c.Radius > 0 {
		return Distance(pos, *c.Center) <= c.Radius
	}
	return false
}

// TriggerFunc runs the side effect of a fired trigger.
type TriggerFunc func(*Trigger)

// Trigger pairs a condition with a callback. Transient zone state
// (playerInZone, timeInZone) persists across ticks for edge detection.
//
// A non-repeatable trigger fires at most once: triggered latches and the
// trigger is skipped entirely afterwards, before any latch state is touched.
type Trigger struct {
	ID         string
	Condition  Condition
	Callback   TriggerFunc
	Repeatable bool

	log *zap.Logger // set by the manager on Add

	active    bool
	triggered bool

	timeInZone   float64
	playerInZone bool
}

func NewTrigger(id string, cond Condition, cb TriggerFunc, repeatable bool) *Trigger {
	return &Trigger{
		ID:         id,
		Condition:  cond,
		Callback:   cb,
		Repeatable: repeatable,
		active:     true,
	}
}

// Update evaluates the trigger against this tick's inputs and fires it if
// its condition holds. Returns true when the trigger fired. InteractNear
// triggers never fire from Update; they require an explicit Interact call.
func (t *Trigger) Update(dt float64, pos Vec2, currentTime string, completed map[string]bool) bool {
	if !t.active || (t.triggered && !t.Repeatable) {
		return false
	}

	fire := false
	switch t.Condition.Kind {
	case EnterZone:
		in := t.Condition.contains(pos)
		fire = in && !t.playerInZone
		t.playerInZone = in
	case ExitZone:
		in := t.Condition.contains(pos)
		fire = !in && t.playerInZone
		t.playerInZone = in
	case StayInZone:
		if t.Condition.contains(pos) {
			t.timeInZone += dt
			fire = t.timeInZone >= t.Condition.StayDuration
		} else {
			t.timeInZone = 0
		}
	case InteractNear:
		// Only fired explicitly, on the player's action key.
	case TimeMatch:
		fire = t.Condition.Time != "" && currentTime == t.Condition.Time
	case TaskCompleted:
		fire = t.Condition.TaskID != "" && completed[t.Condition.TaskID]
	}

	if fire {
		t.execute()
		return true
	}
	return false
}

// Interact fires an InteractNear trigger directly. Proximity is the
// manager's concern; this only checks kind, activation and the one-shot
// latch.
func (t *Trigger) Interact() bool {
	if t.Condition.Kind != InteractNear || !t.active {
		return false
	}
	if t.triggered && !t.Repeatable {
		return false
	}
	t.execute()
	return true
}

func (t *Trigger) execute() {
	defer func() {
		// A panicking callback is contained and does not latch, so the
		// trigger stays armed.
		if r := recover(); r != nil && t.log != nil {
			t.log.Error("trigger callback panicked",
				zap.String("trigger", t.ID),
				zap.Any("panic", r))
		}
	}()
	if t.Callback != nil {
		t.Callback(t)
	}
	t.triggered = true
}

// Reset clears the fired latch and all transient zone state.
func (t *Trigger) Reset() {
	t.triggered = false
	t.timeInZone = 0
	t.playerInZone = false
}

func (t *Trigger) Activate()       { t.active = true }
func (t *Trigger) Deactivate()     { t.active = false }
func (t *Trigger) Active() bool    { return t.active }
func (t *Trigger) Triggered() bool { return t.triggered }

// TimeInZone exposes the dwell accumulator for StayInZone triggers.
func (t *Trigger) TimeInZone() float64 { return t.timeInZone }
