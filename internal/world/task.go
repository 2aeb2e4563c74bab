package world

// TaskType classifies how a task is carried out.
type TaskType string

const (
	TaskInteraction TaskType = "interaction"
	TaskDialogue    TaskType = "dialogue"
	TaskExploration TaskType = "exploration"
	TaskCollection  TaskType = "collection"
)

// ValidTaskType reports whether s names a known task type.
func ValidTaskType(s string) bool {
	switch TaskType(s) {
	case TaskInteraction, TaskDialogue, TaskExploration, TaskCollection:
		return true
	}
	return false
}

// TaskStatus is the per-task state machine. Completed is terminal.
type TaskStatus int

const (
	StatusLocked TaskStatus = iota
	StatusAvailable
	StatusInProgress
	StatusCompleted
)

func (s TaskStatus) String() string {
	switch s {
	case StatusLocked:
		return "locked"
	case StatusAvailable:
		return "available"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// Task is an immutable task definition. Status lives in the TaskManager,
// which is the single source of truth; callers never mutate a Task after
// registering it.
type Task struct {
	ID             string
	Title          string
	Description    string
	Type           TaskType
	Floor          int // 0 = no floor association (building floors are 90+)
	InteractableID string
	NpcID          string
	RewardPoints   int
	Required       bool // main task (true) vs side task
	Dependencies   []string

	CompletionMessage         string
	AllowUnassignedCompletion bool
	DueBy                     string // soft metadata, "HH:MM"
	SoftDue                   string
	Priority                  int
	Tags                      []string
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, g := range t.Tags {
		if g == tag {
			return true
		}
	}
	return false
}

// autoUnlock side tasks carrying the "auto" tag unlock without being offered.
func (t *Task) autoUnlock() bool { return t.HasTag("auto") }
