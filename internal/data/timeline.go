package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/officeday/server/internal/core/timeline"
)

// EventDef is one scheduled timeline entry: at a clock minute, emit an event.
type EventDef struct {
	At   string `yaml:"at"`
	Emit string `yaml:"emit"`
}

type timelineFile struct {
	Events []EventDef `yaml:"events"`
}

// LoadTimeline reads the scripted day. Malformed entries are filtered later
// by the controller's Load, which logs and counts them.
func LoadTimeline(path string) ([]timeline.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	var f timelineFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}

	entries := make([]timeline.Entry, 0, len(f.Events))
	for _, e := range f.Events {
		entries = append(entries, timeline.Entry{At: e.At, Emit: e.Emit})
	}
	return entries, nil
}
