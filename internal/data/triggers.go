package data

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/officeday/server/internal/world"
)

// RectDef is an axis-aligned zone in floor coordinates.
type RectDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// PointDef is a point with an optional radius.
type PointDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TriggerDef is the YAML shape of a trigger record. Emit names the event the
// trigger publishes when it fires; the session wires the callback.
type TriggerDef struct {
	ID           string    `yaml:"id"`
	Type         string    `yaml:"type"`
	Floor        int       `yaml:"floor"` // 0 = global
	Rect         *RectDef  `yaml:"rect"`
	Center       *PointDef `yaml:"center"`
	Radius       float64   `yaml:"radius"`
	Time         string    `yaml:"time"`
	TaskID       string    `yaml:"task_id"`
	StayDuration float64   `yaml:"stay_duration"`
	Repeatable   bool      `yaml:"repeatable"`
	Emit         string    `yaml:"emit"`
}

type triggerListFile struct {
	Triggers []TriggerDef `yaml:"triggers"`
}

// LoadTriggers reads the trigger table. Records with no id, an unknown type
// or no emit event are skipped with a warning.
func LoadTriggers(path string, log *zap.Logger) ([]TriggerDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read triggers: %w", err)
	}
	var f triggerListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse triggers: %w", err)
	}

	defs := make([]TriggerDef, 0, len(f.Triggers))
	for _, d := range f.Triggers {
		if d.ID == "" {
			log.Warn("skipping trigger with empty id", zap.String("type", d.Type))
			continue
		}
		if _, ok := world.TriggerKindFromString(d.Type); !ok {
			log.Warn("skipping trigger with unknown type",
				zap.String("trigger", d.ID),
				zap.String("type", d.Type))
			continue
		}
		if d.Emit == "" {
			log.Warn("skipping trigger with no emit event", zap.String("trigger", d.ID))
			continue
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Condition converts the record's geometry and parameters into a world
// condition. The type name was validated at load time.
func (d *TriggerDef) Condition() world.Condition {
	kind, _ := world.TriggerKindFromString(d.Type)
	c := world.Condition{
		Kind:         kind,
		Radius:       d.Radius,
		Time:         d.Time,
		TaskID:       d.TaskID,
		StayDuration: d.StayDuration,
	}
	if d.Rect != nil {
		c.Zone = &world.Rect{X: d.Rect.X, Y: d.Rect.Y, W: d.Rect.W, H: d.Rect.H}
	}
	if d.Center != nil {
		c.Center = &world.Vec2{X: d.Center.X, Y: d.Center.Y}
	}
	return c
}
