package world

import (
	"go.uber.org/zap"
)

// TriggerManager owns all triggers, split into a global set and per-floor
// sets. It is polled once per tick with the player's inputs and returns the
// ids of triggers that fired, so the caller can react (open dialogue, spawn
// a notification, ...).
type TriggerManager struct {
	log *zap.Logger

	triggers    map[string]*Trigger
	globalOrder []string
	byFloor     map[int][]string
}

func NewTriggerManager(log *zap.Logger) *TriggerManager {
	return &TriggerManager{
		log:      log,
		triggers: make(map[string]*Trigger),
		byFloor:  make(map[int][]string),
	}
}

// Add registers a global trigger, evaluated on every floor.
func (m *TriggerManager) Add(t *Trigger) {
	m.register(t)
	m.globalOrder = append(m.globalOrder, t.ID)
	m.log.Debug("trigger added", zap.String("trigger", t.ID), zap.Stringer("kind", t.Condition.Kind))
}

// AddToFloor registers a trigger evaluated only while the player is on the
// given floor.
func (m *TriggerManager) AddToFloor(floor int, t *Trigger) {
	m.register(t)
	m.byFloor[floor] = append(m.byFloor[floor], t.ID)
	m.log.Debug("trigger added",
		zap.String("trigger", t.ID),
		zap.Stringer("kind", t.Condition.Kind),
		zap.Int("floor", floor))
}

func (m *TriggerManager) register(t *Trigger) {
	t.log = m.log
	m.triggers[t.ID] = t
}

// Remove deletes a trigger from every set it belongs to.
func (m *TriggerManager) Remove(id string) bool {
	if _, ok := m.triggers[id]; !ok {
		return false
	}
	delete(m.triggers, id)
	m.globalOrder = removeID(m.globalOrder, id)
	for floor, ids := range m.byFloor {
		m.byFloor[floor] = removeID(ids, id)
	}
	return true
}

// Update evaluates every global trigger plus every trigger scoped to
// currentFloor, and returns the ids that fired this tick, in evaluation
// order.
func (m *TriggerManager) Update(dt float64, pos Vec2, currentFloor int, currentTime string, completed map[string]bool) []string {
	var fired []string
	for _, id := range m.globalOrder {
		if m.triggers[id].Update(dt, pos, currentTime, completed) {
			fired = append(fired, id)
		}
	}
	for _, id := range m.byFloor[currentFloor] {
		if m.triggers[id].Update(dt, pos, currentTime, completed) {
			fired = append(fired, id)
		}
	}
	for _, id := range fired {
		m.log.Info("trigger fired", zap.String("trigger", id))
	}
	return fired
}

// TriggerInteractionNear fires InteractNear triggers within reach of the
// player. Called from the interaction handler on an explicit action key,
// never from the per-tick poll. Rect zones are inflated by radius; point
// zones use their own radius, falling back to the search radius.
func (m *TriggerManager) TriggerInteractionNear(pos Vec2, currentFloor int, radius float64) []string {
	var fired []string
	scan := func(ids []string) {
		for _, id := range ids {
			t := m.triggers[id]
			if t.Condition.Kind != InteractNear {
				continue
			}
			if !m.near(t, pos, radius) {
				continue
			}
			if t.Interact() {
				fired = append(fired, id)
			}
		}
	}
	scan(m.globalOrder)
	scan(m.byFloor[currentFloor])
	for _, id := range fired {
		m.log.Info("interaction trigger fired", zap.String("trigger", id))
	}
	return fired
}

func (m *TriggerManager) near(t *Trigger, pos Vec2, radius float64) bool {
	c := &t.Condition
	if c.Zone != nil {
		return c.Zone.Inflate(radius, radius).Contains(pos)
	}
	if c.Center != nil {
		r := c.Radius
		if r <= 0 {
			r = radius
		}
		return Distance(pos, *c.Center) <= r
	}
	return false
}

// Get returns a registered trigger by id.
func (m *TriggerManager) Get(id string) (*Trigger, bool) {
	t, ok := m.triggers[id]
	return t, ok
}

func (m *TriggerManager) Activate(id string) bool {
	t, ok := m.triggers[id]
	if ok {
		t.Activate()
	}
	return ok
}

func (m *TriggerManager) Deactivate(id string) bool {
	t, ok := m.triggers[id]
	if ok {
		t.Deactivate()
	}
	return ok
}

func (m *TriggerManager) ResetTrigger(id string) bool {
	t, ok := m.triggers[id]
	if ok {
		t.Reset()
	}
	return ok
}

// ResetAll rearms every trigger, clearing latches and zone state.
func (m *TriggerManager) ResetAll() {
	for _, t := range m.triggers {
		t.Reset()
	}
	m.log.Info("all triggers reset")
}

// ClearFloor removes every trigger scoped to a floor.
func (m *TriggerManager) ClearFloor(floor int) {
	for _, id := range m.byFloor[floor] {
		delete(m.triggers, id)
	}
	delete(m.byFloor, floor)
}

// TriggerStats is a summary of the registered triggers.
type TriggerStats struct {
	Total     int
	Active    int
	Triggered int
	Floors    int
	ByKind    map[string]int
}

func (m *TriggerManager) Stats() TriggerStats {
	st := TriggerStats{
		Total:  len(m.triggers),
		Floors: len(m.byFloor),
		ByKind: make(map[string]int),
	}
	for _, t := range m.triggers {
		if t.Active() {
			st.Active++
		}
		if t.Triggered() {
			st.Triggered++
		}
		st.ByKind[t.Condition.Kind.String()]++
	}
	return st
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
