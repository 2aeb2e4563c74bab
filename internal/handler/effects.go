package handler

import (
	"go.uber.org/zap"

	"github.com/officeday/server/internal/core/event"
	"github.com/officeday/server/internal/data"
)

// RegisterAll subscribes one handler per binding, so publishing the bound
// event applies its effects in order. Returns the number of bindings wired.
func RegisterAll(deps *Deps, bindings []data.Binding) int {
	for _, b := range bindings {
		effects := b.Effects
		deps.Bus.Subscribe(b.Event, func(event.Payload) {
			for _, e := range effects {
				Apply(deps, e)
			}
		})
		deps.Log.Debug("effects bound",
			zap.String("event", b.Event),
			zap.Int("effects", len(effects)))
	}
	return len(bindings)
}

// Apply executes one effect against the session. Unknown actions were
// filtered at load time; anything left unmatched is a programming error and
// only logged.
func Apply(deps *Deps, e data.Effect) {
	st := deps.State
	switch e.Action {
	case "offer_task":
		// Only announce the task if the offer actually unlocked it; offering
		// a completed or still-blocked task stays quiet.
		if st.Tasks.Offer(e.TaskID) && st.Tasks.IsAvailable(e.TaskID) {
			if task, ok := st.Tasks.Get(e.TaskID); ok && task.Title != "" {
				st.PushToast("New task: "+task.Title, "task")
			}
		}
	case "discover_task":
		st.Tasks.Discover(e.TaskID)
	case "complete_task":
		if st.Tasks.Complete(e.TaskID) {
			if task, ok := st.Tasks.Get(e.TaskID); ok && task.CompletionMessage != "" {
				st.PushToast(task.CompletionMessage, "success")
			}
		}
	case "set_flag":
		st.SetFlag(e.Flag)
	case "toast":
		kind := e.Kind
		if kind == "" {
			kind = "info"
		}
		st.PushToast(e.Message, kind)
	case "call_elevator":
		st.Elevator.Call(e.Floor)
	default:
		deps.Log.Error("unhandled effect action", zap.String("action", e.Action))
	}
}
