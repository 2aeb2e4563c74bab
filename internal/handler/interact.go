package handler

import "go.uber.org/zap"

// DefaultInteractRadius is how far the action key reaches, in floor units.
const DefaultInteractRadius = 50.0

// HandleInteract processes the player using a named interactable. A matching
// unassigned task completes silently: the player only sees a generic
// acknowledgement, never which task it was.
func HandleInteract(deps *Deps, interactableID string) {
	st := deps.State

	if task, ok := st.Tasks.ForInteractable(interactableID); ok {
		if st.Tasks.Complete(task.ID) {
			if task.CompletionMessage != "" {
				st.PushToast(task.CompletionMessage, "success")
			}
			deps.Log.Info("task completed via interactable",
				zap.String("task", task.ID),
				zap.String("interactable", interactableID))
			return
		}
	}

	if st.Tasks.CompleteUnassignedIfMatch(interactableID) {
		st.PushToast("Done.", "info")
	}
}

// HandleActionKey fires interaction triggers within reach of the player.
// Returns the ids that fired.
func HandleActionKey(deps *Deps) []string {
	st := deps.State
	return st.Triggers.TriggerInteractionNear(
		st.Player.Pos(),
		st.Player.Floor,
		DefaultInteractRadius)
}
