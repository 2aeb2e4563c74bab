// Package timeline fires named events at scheduled in-game minutes. Entries
// are data-driven and fire at most once, either from a per-tick poll or from
// the bus's TIME_REACHED events; both paths may run in the same session
// without double-firing.
package timeline

import (
	"go.uber.org/zap"

	"github.com/officeday/server/internal/core/clock"
	"github.com/officeday/server/internal/core/event"
)

// Entry schedules one event: publish Emit when the clock reaches At.
type Entry struct {
	At    string // "HH:MM"
	Emit  string // topic to publish
	fired bool
}

func (e *Entry) Fired() bool { return e.fired }

// TimeSource is the slice of the game clock the pull path needs.
type TimeSource interface {
	TimeString() string
}

// Controller owns the loaded timeline and its firing state.
type Controller struct {
	log        *zap.Logger
	bus        *event.Bus
	entries    []*Entry
	subscribed bool
}

func New(bus *event.Bus, log *zap.Logger) *Controller {
	return &Controller{log: log, bus: bus}
}

// Load replaces the timeline with the given entries. Entries with a
// malformed At or an empty Emit are logged and skipped; a bad entry never
// aborts the rest of the load. Returns the number of entries accepted.
// The first Load also subscribes the push path to TIME_REACHED.
func (c *Controller) Load(entries []Entry) int {
	c.entries = c.entries[:0]
	for _, e := range entries {
		if !clock.IsMinute(e.At) || e.Emit == "" {
			c.log.Warn("skipping malformed timeline entry",
				zap.String("at", e.At),
				zap.String("emit", e.Emit))
			continue
		}
		c.entries = append(c.entries, &Entry{At: e.At, Emit: e.Emit})
	}
	if !c.subscribed {
		c.bus.Subscribe(event.TopicTimeReached, c.onTimeReached)
		c.subscribed = true
	}
	c.log.Info("timeline loaded", zap.Int("entries", len(c.entries)))
	return len(c.entries)
}

// Update is the pull path: fire every unfired entry whose minute matches the
// clock's current minute.
func (c *Controller) Update(clk TimeSource) {
	c.fireDue(clk.TimeString())
}

// onTimeReached is the push path, driven by the clock's TIME_REACHED events.
func (c *Controller) onTimeReached(p event.Payload) {
	minute, _ := p["time"].(string)
	if minute == "" {
		return
	}
	c.fireDue(minute)
}

func (c *Controller) fireDue(minute string) {
	for _, e := range c.entries {
		if !e.fired && e.At == minute {
			c.fire(e)
		}
	}
}

// fire publishes the entry's event plus the namespaced TIMELINE: topic.
// Gated by the fired flag, so firing is idempotent across both paths.
func (c *Controller) fire(e *Entry) {
	e.fired = true
	payload := event.Payload{"at": e.At}
	c.bus.Publish(e.Emit, payload)
	c.bus.Publish(event.TimelineTopic(e.Emit), payload)
	c.log.Info("timeline event fired",
		zap.String("at", e.At),
		zap.String("emit", e.Emit))
}

// Entries exposes the loaded entries, mainly for summaries and tests.
func (c *Controller) Entries() []*Entry { return c.entries }

// Pending counts entries that have not fired yet.
func (c *Controller) Pending() int {
	n := 0
	for _, e := range c.entries {
		if !e.fired {
			n++
		}
	}
	return n
}
