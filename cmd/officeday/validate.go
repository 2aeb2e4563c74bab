package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/officeday/server/internal/data"
)

func validateCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the data tables against their schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config/office.toml", "path to config file")
	return cmd
}

func runValidate(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	problems, err := data.ValidateAll(cfg.Data.Dir, cfg.Data.SchemaDir)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Println(p)
		}
		return fmt.Errorf("%d schema violations", len(problems))
	}

	// Schemas passed; run the loaders too so referential problems (skipped
	// records, unknown types) surface here instead of at startup.
	log := zap.NewNop()
	tasks, err := data.LoadTasks(filepath.Join(cfg.Data.Dir, "tasks.yaml"), log)
	if err != nil {
		return err
	}
	entries, err := data.LoadTimeline(filepath.Join(cfg.Data.Dir, "timeline.yaml"))
	if err != nil {
		return err
	}
	triggers, err := data.LoadTriggers(filepath.Join(cfg.Data.Dir, "triggers.yaml"), log)
	if err != nil {
		return err
	}
	bindings, err := data.LoadEffects(filepath.Join(cfg.Data.Dir, "effects.yaml"), log)
	if err != nil {
		return err
	}

	fmt.Printf("ok: %d tasks, %d timeline entries, %d triggers, %d bindings\n",
		len(tasks), len(entries), len(triggers), len(bindings))
	return nil
}
