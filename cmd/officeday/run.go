package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/officeday/server/internal/config"
	"github.com/officeday/server/internal/core/clock"
	"github.com/officeday/server/internal/core/event"
	coresys "github.com/officeday/server/internal/core/system"
	"github.com/officeday/server/internal/core/timeline"
	"github.com/officeday/server/internal/data"
	"github.com/officeday/server/internal/handler"
	"github.com/officeday/server/internal/system"
	"github.com/officeday/server/internal/transport/observer"
	"github.com/officeday/server/internal/world"
)

func runCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulated workday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDay(cfgPath)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config/office.toml", "path to config file")
	return cmd
}

func runDay(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 1. Data validation: warnings only, the day still starts.
	printSection("data")
	problems, err := data.ValidateAll(cfg.Data.Dir, cfg.Data.SchemaDir)
	if err != nil {
		return fmt.Errorf("validate data: %w", err)
	}
	for _, p := range problems {
		printWarn(p)
		log.Warn("data validation", zap.String("problem", p))
	}
	if len(problems) == 0 {
		printOK("data tables valid")
	}

	// 2. Load data tables.
	tasks, err := data.LoadTasks(filepath.Join(cfg.Data.Dir, "tasks.yaml"), log)
	if err != nil {
		return err
	}
	entries, err := data.LoadTimeline(filepath.Join(cfg.Data.Dir, "timeline.yaml"))
	if err != nil {
		return err
	}
	triggerDefs, err := data.LoadTriggers(filepath.Join(cfg.Data.Dir, "triggers.yaml"), log)
	if err != nil {
		return err
	}
	bindings, err := data.LoadEffects(filepath.Join(cfg.Data.Dir, "effects.yaml"), log)
	if err != nil {
		return err
	}
	printStat("tasks", len(tasks))
	printStat("timeline entries", len(entries))
	printStat("triggers", len(triggerDefs))
	printStat("effect bindings", len(bindings))

	// 3. Core wiring.
	bus := event.NewBus(log)
	clk, err := clock.New(cfg.Clock.StartTime, cfg.Clock.EndTime, cfg.Clock.Speed, bus, log)
	if err != nil {
		return fmt.Errorf("init clock: %w", err)
	}

	taskMgr := world.NewTaskManager(log)
	for _, t := range tasks {
		taskMgr.Add(t)
	}

	triggerMgr := world.NewTriggerManager(log)
	for _, d := range triggerDefs {
		d := d
		t := world.NewTrigger(d.ID, d.Condition(), func(*world.Trigger) {
			bus.Publish(d.Emit, event.Payload{"trigger": d.ID})
		}, d.Repeatable)
		if d.Floor == 0 {
			triggerMgr.Add(t)
		} else {
			triggerMgr.AddToFloor(d.Floor, t)
		}
	}

	elevator := world.NewElevator(
		cfg.Elevator.StartFloor,
		cfg.Elevator.MinFloor,
		cfg.Elevator.MaxFloor,
		cfg.Elevator.FloorTravelTime,
		cfg.Elevator.DoorAnimationDuration,
		log)
	elevator.OnFloorReached = func(floor int) {
		bus.Publish("ELEVATOR_FLOOR_REACHED", event.Payload{"floor": floor})
	}
	elevator.OnDoorsOpened = func() {
		bus.Publish("ELEVATOR_DOORS_OPENED", event.Payload{"floor": elevator.CurrentFloor()})
	}
	elevator.OnDoorsClosed = func() {
		bus.Publish("ELEVATOR_DOORS_CLOSED", event.Payload{"floor": elevator.CurrentFloor()})
	}

	st := world.NewState(taskMgr, triggerMgr, elevator, log)
	st.Player.Floor = cfg.Elevator.StartFloor
	log = log.With(zap.String("run", st.RunID))

	tl := timeline.New(bus, log)
	loaded := tl.Load(entries)
	if loaded < len(entries) {
		printWarn(fmt.Sprintf("%d timeline entries skipped", len(entries)-loaded))
	}

	deps := &handler.Deps{Bus: bus, Clock: clk, State: st, Log: log}
	handler.RegisterAll(deps, bindings)

	// 4. Observer feed.
	var obs *observer.Server
	if cfg.Observer.Enabled {
		obs = observer.New(cfg.Observer.BindAddress, log)
		bus.Tap(obs.Tap())
		go func() {
			if err := obs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("observer feed stopped", zap.Error(err))
			}
		}()
		printOK("observer feed on " + cfg.Observer.BindAddress)
	}

	// 5. Systems, in tick phase order.
	runner := coresys.NewRunner()
	runner.Register(system.NewClockSystem(clk))
	runner.Register(system.NewTimelineSystem(tl, clk))
	runner.Register(system.NewElevatorSystem(elevator))
	runner.Register(system.NewTriggerSystem(st, clk))
	runner.Register(system.NewOutputSystem(st, log))

	printSection("workday")
	printReady(fmt.Sprintf("run %s", st.RunID))
	printReady(fmt.Sprintf("%s until %s, speed %.0fx",
		cfg.Clock.StartTime, cfg.Clock.EndTime, cfg.Clock.Speed))
	fmt.Println()

	// 6. Simulation loop. Everything above runs on this goroutine.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	clk.Start()
	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()
	dt := cfg.Simulation.TickRate.Seconds()

loop:
	for {
		select {
		case <-sigCh:
			log.Info("interrupted, ending the day early")
			break loop
		case <-ticker.C:
			runner.Tick(dt)
			if clk.IsDeadline() {
				log.Info("deadline reached", zap.String("time", clk.TimeString()))
				break loop
			}
		}
	}

	if obs != nil {
		obs.Close()
	}

	printSummary(st, clk)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Defaults(), nil
	}
	return config.Load(path)
}

// printSummary renders the end-of-day report.
func printSummary(st *world.State, clk *clock.Clock) {
	taskStats := st.Tasks.Stats()
	trigStats := st.Triggers.Stats()
	elevStats := st.Elevator.Stats()

	fmt.Println()
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("End of day — run " + st.RunID)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"clock", clk.String()},
		{"tasks completed", fmt.Sprintf("%d / %d", taskStats.CompletedTasks, taskStats.TotalTasks)},
		{"main tasks completed", taskStats.MainTasksCompleted},
		{"side tasks completed", taskStats.SideTasksCompleted},
		{"silent completions", taskStats.SilentCompletions},
		{"points", taskStats.TotalPoints},
		{"completion", fmt.Sprintf("%.0f%%", taskStats.CompletionPercent*100)},
		{"triggers fired", trigStats.Triggered},
		{"elevator uses", elevStats.TotalUses},
		{"floors visited", elevStats.FloorsVisited},
		{"story flags", st.FlagCount()},
	})
	tw.Render()

	if taskStats.AllMainCompleted {
		printOK("every main task done before the deadline")
	} else {
		printWarn("the day ended with main tasks still open")
	}
}
