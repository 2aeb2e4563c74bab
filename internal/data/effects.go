package data

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Effect is one declarative reaction to an event. Action names a closed
// vocabulary; the fields an action does not use are ignored.
type Effect struct {
	Action  string `yaml:"action"`
	TaskID  string `yaml:"task_id"` // offer_task, discover_task, complete_task
	Flag    string `yaml:"flag"`    // set_flag
	Message string `yaml:"message"` // toast
	Kind    string `yaml:"kind"`    // toast severity, defaults to "info"
	Floor   int    `yaml:"floor"`   // call_elevator
}

// Binding attaches a list of effects to a published event name.
type Binding struct {
	Event   string   `yaml:"event"`
	Effects []Effect `yaml:"effects"`
}

type effectsFile struct {
	Bindings []Binding `yaml:"bindings"`
}

// knownActions is the closed effect vocabulary.
var knownActions = map[string]bool{
	"offer_task":    true,
	"discover_task": true,
	"complete_task": true,
	"set_flag":      true,
	"toast":         true,
	"call_elevator": true,
}

// LoadEffects reads the event-to-effect bindings. Bindings with no event and
// effects with an unknown action are skipped with a warning.
func LoadEffects(path string, log *zap.Logger) ([]Binding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read effects: %w", err)
	}
	var f effectsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse effects: %w", err)
	}

	bindings := make([]Binding, 0, len(f.Bindings))
	for _, b := range f.Bindings {
		if b.Event == "" {
			log.Warn("skipping binding with empty event")
			continue
		}
		kept := make([]Effect, 0, len(b.Effects))
		for _, e := range b.Effects {
			if !knownActions[e.Action] {
				log.Warn("skipping effect with unknown action",
					zap.String("event", b.Event),
					zap.String("action", e.Action))
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			continue
		}
		b.Effects = kept
		bindings = append(bindings, b)
	}
	return bindings, nil
}
