package data

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/officeday/server/internal/world"
)

// TaskDef is the YAML shape of a task record. AllowUnassignedCompletion is a
// pointer so an omitted field defaults to true.
type TaskDef struct {
	ID                        string   `yaml:"id"`
	Title                     string   `yaml:"title"`
	Description               string   `yaml:"description"`
	Type                      string   `yaml:"type"`
	Floor                     int      `yaml:"floor"`
	InteractableID            string   `yaml:"interactable_id"`
	NpcID                     string   `yaml:"npc_id"`
	RewardPoints              int      `yaml:"reward_points"`
	Dependencies              []string `yaml:"dependencies"`
	CompletionMessage         string   `yaml:"completion_message"`
	AllowUnassignedCompletion *bool    `yaml:"allow_unassigned_completion"`
	DueBy                     string   `yaml:"due_by"`
	SoftDue                   string   `yaml:"soft_due"`
	Priority                  int      `yaml:"priority"`
	Tags                      []string `yaml:"tags"`
}

type taskListFile struct {
	MainTasks []TaskDef `yaml:"main_tasks"`
	SideTasks []TaskDef `yaml:"side_tasks"`
}

// LoadTasks reads the task table. Records with no id or an unknown type are
// skipped with a warning; the rest of the file still loads.
func LoadTasks(path string, log *zap.Logger) ([]*world.Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	var f taskListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	tasks := make([]*world.Task, 0, len(f.MainTasks)+len(f.SideTasks))
	for i := range f.MainTasks {
		if t, ok := buildTask(&f.MainTasks[i], true, log); ok {
			tasks = append(tasks, t)
		}
	}
	for i := range f.SideTasks {
		if t, ok := buildTask(&f.SideTasks[i], false, log); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func buildTask(d *TaskDef, required bool, log *zap.Logger) (*world.Task, bool) {
	if d.ID == "" {
		log.Warn("skipping task with empty id", zap.String("title", d.Title))
		return nil, false
	}
	typ := d.Type
	if typ == "" {
		typ = string(world.TaskInteraction)
	}
	if !world.ValidTaskType(typ) {
		log.Warn("skipping task with unknown type",
			zap.String("task", d.ID),
			zap.String("type", d.Type))
		return nil, false
	}

	allowUnassigned := true
	if d.AllowUnassignedCompletion != nil {
		allowUnassigned = *d.AllowUnassignedCompletion
	}

	return &world.Task{
		ID:                        d.ID,
		Title:                     d.Title,
		Description:               d.Description,
		Type:                      world.TaskType(typ),
		Floor:                     d.Floor,
		InteractableID:            d.InteractableID,
		NpcID:                     d.NpcID,
		RewardPoints:              d.RewardPoints,
		Required:                  required,
		Dependencies:              d.Dependencies,
		CompletionMessage:         d.CompletionMessage,
		AllowUnassignedCompletion: allowUnassigned,
		DueBy:                     d.DueBy,
		SoftDue:                   d.SoftDue,
		Priority:                  d.Priority,
		Tags:                      d.Tags,
	}, true
}
