package world

import (
	"sort"

	"go.uber.org/zap"
)

// TaskManager owns every task definition, its dependency edges and its
// status. It is the single source of truth for task state; other components
// only read status or call the mutating operations below. Owned by the
// gameplay session and mutated only from the simulation loop goroutine.
type TaskManager struct {
	log *zap.Logger

	tasks  map[string]*Task
	order  []string // registration order, for deterministic iteration
	status map[string]TaskStatus

	completed  map[string]struct{}
	available  map[string]struct{}
	discovered map[string]struct{}
	offered    map[string]struct{}
	silent     map[string]struct{} // completed via unassigned interactable match

	totalPoints        int
	mainTasksCompleted int
	sideTasksCompleted int
}

func NewTaskManager(log *zap.Logger) *TaskManager {
	return &TaskManager{
		log:        log,
		tasks:      make(map[string]*Task),
		status:     make(map[string]TaskStatus),
		completed:  make(map[string]struct{}),
		available:  make(map[string]struct{}),
		discovered: make(map[string]struct{}),
		offered:    make(map[string]struct{}),
		silent:     make(map[string]struct{}),
	}
}

// Add registers a task and computes its initial status. Re-adding an id
// replaces the previous definition (logged, not an error).
func (m *TaskManager) Add(t *Task) {
	if _, exists := m.tasks[t.ID]; exists {
		m.log.Info("replacing existing task definition", zap.String("task", t.ID))
	} else {
		m.order = append(m.order, t.ID)
	}
	m.tasks[t.ID] = t

	if m.eligible(t) {
		m.status[t.ID] = StatusAvailable
		m.available[t.ID] = struct{}{}
	} else {
		m.status[t.ID] = StatusLocked
		delete(m.available, t.ID)
	}
	m.log.Debug("task added",
		zap.String("task", t.ID),
		zap.Stringer("status", m.status[t.ID]))
}

// Offer marks a side task as eligible for unlock and re-evaluates statuses.
// Returns false for unknown ids.
func (m *TaskManager) Offer(id string) bool {
	if _, ok := m.tasks[id]; !ok {
		m.log.Warn("offer: unknown task", zap.String("task", id))
		return false
	}
	m.offered[id] = struct{}{}
	m.updateAvailable()
	m.log.Debug("task offered", zap.String("task", id))
	return true
}

// Discover marks a task as known to the player. Purely informational; it
// does not affect unlock eligibility. Returns false for unknown or already
// discovered ids.
func (m *TaskManager) Discover(id string) bool {
	if _, ok := m.tasks[id]; !ok {
		return false
	}
	if _, ok := m.discovered[id]; ok {
		return false
	}
	m.discovered[id] = struct{}{}
	m.log.Debug("task discovered", zap.String("task", id))
	return true
}

// Complete moves a task to Completed, awards its points and re-evaluates
// dependent tasks. Returns false, with no state change, for unknown ids and
// for already completed tasks.
func (m *TaskManager) Complete(id string) bool {
	t, ok := m.tasks[id]
	if !ok {
		m.log.Warn("complete: unknown task", zap.String("task", id))
		return false
	}
	if _, done := m.completed[id]; done {
		m.log.Debug("task already completed", zap.String("task", id))
		return false
	}

	m.finish(t)
	m.log.Info("task completed",
		zap.String("task", id),
		zap.String("title", t.Title),
		zap.Int("points", t.RewardPoints))
	return true
}

// CompleteUnassignedIfMatch completes the task bound to the given
// interactable even if it was never offered, provided it allows unassigned
// completion and is not yet completed. The completion is recorded in the
// silent set and no task id is surfaced: the caller only learns that
// something happened, so the UI shows a generic toast instead of a task
// banner. Returns false when nothing matched; never an error.
func (m *TaskManager) CompleteUnassignedIfMatch(interactableID string) bool {
	for _, id := range m.order {
		t := m.tasks[id]
		if t.InteractableID == "" || t.InteractableID != interactableID {
			continue
		}
		if _, done := m.completed[t.ID]; done {
			return false
		}
		if !t.AllowUnassignedCompletion {
			return false
		}
		m.finish(t)
		m.silent[t.ID] = struct{}{}
		m.log.Info("task silently completed via unassigned interaction",
			zap.String("task", t.ID),
			zap.String("interactable", interactableID))
		return true
	}
	return false
}

// finish applies the shared completion mechanics: status, points, counters,
// downstream re-evaluation. The one place dependent tasks may unlock.
func (m *TaskManager) finish(t *Task) {
	m.completed[t.ID] = struct{}{}
	m.status[t.ID] = StatusCompleted
	delete(m.available, t.ID)
	m.totalPoints += t.RewardPoints
	if t.Required {
		m.mainTasksCompleted++
	} else {
		m.sideTasksCompleted++
	}
	m.updateAvailable()
}

// eligible is the unlock condition: every dependency completed AND the task
// is required, offered, or auto-tagged.
func (m *TaskManager) eligible(t *Task) bool {
	for _, dep := range t.Dependencies {
		if _, done := m.completed[dep]; !done {
			return false
		}
	}
	if t.Required || t.autoUnlock() {
		return true
	}
	_, offered := m.offered[t.ID]
	return offered
}

// updateAvailable re-scans every task: Locked tasks whose condition now
// holds are promoted; Available tasks whose condition no longer holds are
// demoted back to Locked. Completed is terminal and never touched. The graph
// is tens of tasks, so a full O(n) scan per completion is fine.
func (m *TaskManager) updateAvailable() {
	for _, id := range m.order {
		t := m.tasks[id]
		switch m.status[id] {
		case StatusLocked:
			if m.eligible(t) {
				m.status[id] = StatusAvailable
				m.available[id] = struct{}{}
				m.log.Debug("task unlocked", zap.String("task", id))
			}
		case StatusAvailable:
			if !m.eligible(t) {
				m.status[id] = StatusLocked
				delete(m.available, id)
				m.log.Debug("task re-locked", zap.String("task", id))
			}
		}
	}
}

// ── Read-only queries ─────────────────────────────────────────────

// Get returns the task definition for id.
func (m *TaskManager) Get(id string) (*Task, bool) {
	t, ok := m.tasks[id]
	return t, ok
}

// Status returns the current status for id.
func (m *TaskManager) Status(id string) (TaskStatus, bool) {
	s, ok := m.status[id]
	return s, ok
}

func (m *TaskManager) IsKnown(id string) bool {
	_, ok := m.tasks[id]
	return ok
}

func (m *TaskManager) IsCompleted(id string) bool {
	_, ok := m.completed[id]
	return ok
}

func (m *TaskManager) IsAvailable(id string) bool {
	_, ok := m.available[id]
	return ok
}

func (m *TaskManager) IsDiscovered(id string) bool {
	_, ok := m.discovered[id]
	return ok
}

// IsSilentlyCompleted reports whether id was completed through an unassigned
// interactable match rather than an explicit Complete call.
func (m *TaskManager) IsSilentlyCompleted(id string) bool {
	_, ok := m.silent[id]
	return ok
}

// CompletedIDs returns a snapshot set of completed task ids, in the shape
// the trigger evaluator polls with each tick.
func (m *TaskManager) CompletedIDs() map[string]bool {
	out := make(map[string]bool, len(m.completed))
	for id := range m.completed {
		out[id] = true
	}
	return out
}

// Available returns the currently available tasks in registration order.
func (m *TaskManager) Available() []*Task {
	return m.collect(func(id string) bool { return m.IsAvailable(id) })
}

// Completed returns the completed tasks in registration order.
func (m *TaskManager) Completed() []*Task {
	return m.collect(func(id string) bool { return m.IsCompleted(id) })
}

// MainTasks returns every required task.
func (m *TaskManager) MainTasks() []*Task {
	return m.collect(func(id string) bool { return m.tasks[id].Required })
}

// SideTasks returns every non-required task.
func (m *TaskManager) SideTasks() []*Task {
	return m.collect(func(id string) bool { return !m.tasks[id].Required })
}

// ForFloor returns the available tasks located on the given floor.
func (m *TaskManager) ForFloor(floor int) []*Task {
	return m.collect(func(id string) bool {
		return m.IsAvailable(id) && m.tasks[id].Floor == floor
	})
}

// ForInteractable returns the available task bound to an interactable.
// Tie-break is deterministic: required tasks first, then higher priority,
// then lexical id.
func (m *TaskManager) ForInteractable(interactableID string) (*Task, bool) {
	var cands []*Task
	for _, t := range m.Available() {
		if t.InteractableID == interactableID {
			cands = append(cands, t)
		}
	}
	if len(cands) == 0 {
		return nil, false
	}
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Required != b.Required {
			return a.Required
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.ID < b.ID
	})
	return cands[0], true
}

// ForNpc returns the first available task bound to an NPC.
func (m *TaskManager) ForNpc(npcID string) (*Task, bool) {
	for _, t := range m.Available() {
		if t.NpcID == npcID {
			return t, true
		}
	}
	return nil, false
}

func (m *TaskManager) AllMainCompleted() bool {
	for _, t := range m.MainTasks() {
		if !m.IsCompleted(t.ID) {
			return false
		}
	}
	return true
}

func (m *TaskManager) AllCompleted() bool {
	return len(m.completed) == len(m.tasks)
}

// CompletionPercent returns completed/total in [0,1]; 1 for an empty graph.
func (m *TaskManager) CompletionPercent() float64 {
	if len(m.tasks) == 0 {
		return 1
	}
	return float64(len(m.completed)) / float64(len(m.tasks))
}

// MainCompletionPercent returns the completion ratio over required tasks.
func (m *TaskManager) MainCompletionPercent() float64 {
	main := m.MainTasks()
	if len(main) == 0 {
		return 1
	}
	done := 0
	for _, t := range main {
		if m.IsCompleted(t.ID) {
			done++
		}
	}
	return float64(done) / float64(len(main))
}

// TotalPoints returns the accumulated reward points.
func (m *TaskManager) TotalPoints() int { return m.totalPoints }

// AddPoints adjusts the score outside task completion (story bonuses).
func (m *TaskManager) AddPoints(n int) { m.totalPoints += n }

// Reset clears all dynamic state and recomputes statuses from scratch.
// Definitions are kept. Used for replay and tests.
func (m *TaskManager) Reset() {
	m.completed = make(map[string]struct{})
	m.available = make(map[string]struct{})
	m.discovered = make(map[string]struct{})
	m.offered = make(map[string]struct{})
	m.silent = make(map[string]struct{})
	m.totalPoints = 0
	m.mainTasksCompleted = 0
	m.sideTasksCompleted = 0

	for _, id := range m.order {
		t := m.tasks[id]
		if m.eligible(t) {
			m.status[id] = StatusAvailable
			m.available[id] = struct{}{}
		} else {
			m.status[id] = StatusLocked
		}
	}
	m.log.Info("task manager reset")
}

// TaskStats is the end-of-day roll-up.
type TaskStats struct {
	TotalTasks         int
	CompletedTasks     int
	AvailableTasks     int
	MainTasksCompleted int
	SideTasksCompleted int
	SilentCompletions  int
	TotalPoints        int
	CompletionPercent  float64
	MainPercent        float64
	AllMainCompleted   bool
	AllCompleted       bool
}

func (m *TaskManager) Stats() TaskStats {
	return TaskStats{
		TotalTasks:         len(m.tasks),
		CompletedTasks:     len(m.completed),
		AvailableTasks:     len(m.available),
		MainTasksCompleted: m.mainTasksCompleted,
		SideTasksCompleted: m.sideTasksCompleted,
		SilentCompletions:  len(m.silent),
		TotalPoints:        m.totalPoints,
		CompletionPercent:  m.CompletionPercent(),
		MainPercent:        m.MainCompletionPercent(),
		AllMainCompleted:   m.AllMainCompleted(),
		AllCompleted:       m.AllCompleted(),
	}
}

func (m *TaskManager) collect(keep func(id string) bool) []*Task {
	var out []*Task
	for _, id := range m.order {
		if keep(id) {
			out = append(out, m.tasks[id])
		}
	}
	return out
}
