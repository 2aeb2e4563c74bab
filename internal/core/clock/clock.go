// Package clock implements the virtual workday clock. Time advances from a
// start minute to an end minute at a configurable multiple of real time and
// emits minute-change events on the bus.
package clock

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/officeday/server/internal/core/event"
)

// All times live on an arbitrary fixed date; only "HH:MM" strings ever cross
// the package boundary.
var dayAnchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseMinute parses a strict "HH:MM" time-of-day onto the anchor date.
func ParseMinute(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return dayAnchor.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// IsMinute reports whether s is a well-formed "HH:MM" string.
func IsMinute(s string) bool {
	_, err := ParseMinute(s)
	return err == nil
}

// Clock is the diegetic game clock. It is owned by the gameplay session and
// ticked once per simulation step from the loop goroutine.
//
// Invariant: start <= current <= end. Once current reaches end the clock
// stops itself and further ticks are no-ops; virtual time never wraps or
// runs backwards.
type Clock struct {
	log *zap.Logger
	bus *event.Bus

	start   time.Time
	end     time.Time
	current time.Time
	speed   float64 // virtual seconds per real second
	running bool

	totalRealSeconds float64
	lastMinute       string // last "HH:MM" minute for which events were emitted
}

// New builds a clock covering start..end ("HH:MM" each) at the given speed
// multiplier. The bus may be nil for clock-only use (no events are emitted).
func New(start, end string, speed float64, bus *event.Bus, log *zap.Logger) (*Clock, error) {
	s, err := ParseMinute(start)
	if err != nil {
		return nil, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseMinute(end)
	if err != nil {
		return nil, fmt.Errorf("end time: %w", err)
	}
	if !e.After(s) {
		return nil, fmt.Errorf("end time %s is not after start time %s", end, start)
	}
	if speed <= 0 {
		return nil, fmt.Errorf("speed must be positive, got %v", speed)
	}
	c := &Clock{
		log:     log,
		bus:     bus,
		start:   s,
		end:     e,
		current: s,
		speed:   speed,
	}
	log.Info("game clock initialized",
		zap.String("start", start),
		zap.String("end", end),
		zap.Float64("speed", speed))
	return c, nil
}

func (c *Clock) Start() {
	c.running = true
	c.log.Info("game clock started", zap.String("time", c.TimeString()))
}

func (c *Clock) Stop() {
	c.running = false
	c.log.Info("game clock stopped", zap.String("time", c.TimeString()))
}

// Reset rewinds to the start time. The minute-emission latch is cleared so a
// replayed run emits its minutes again.
func (c *Clock) Reset() {
	c.current = c.start
	c.totalRealSeconds = 0
	c.lastMinute = ""
	c.log.Info("game clock reset")
}

// Tick advances the clock by dt real seconds. No-op when stopped or already
// at the deadline. Emits TIME_TICK, TIME_REACHED and TIME_REACHED:<HH:MM>
// at most once per distinct in-game minute, even if several ticks land in
// the same minute.
func (c *Clock) Tick(dt float64) {
	if !c.running || c.IsDeadline() {
		return
	}

	c.totalRealSeconds += dt
	c.current = c.current.Add(time.Duration(dt * c.speed * float64(time.Second)))

	// Landing exactly on the end time is a deadline too, not just overshoot.
	if !c.current.Before(c.end) {
		c.current = c.end
		c.running = false
		c.log.Warn("deadline reached, game clock stopped")
	}

	// lastMinute starts empty, so the first tick also announces the minute
	// the day begins in.
	minute := c.TimeString()
	if minute == c.lastMinute {
		return
	}
	c.lastMinute = minute
	if c.bus == nil {
		return
	}
	payload := event.Payload{"time": minute}
	c.bus.Publish(event.TopicTimeTick, payload)
	c.bus.Publish(event.TopicTimeReached, payload)
	c.bus.Publish(event.MinuteTopic(minute), payload)
}

func (c *Clock) Running() bool { return c.running }

// TimeString returns the current in-game time as "HH:MM".
func (c *Clock) TimeString() string { return c.current.Format("15:04") }

// DetailedTimeString returns the current in-game time as "HH:MM:SS".
func (c *Clock) DetailedTimeString() string { return c.current.Format("15:04:05") }

// IsDeadline reports whether the end time has been reached.
func (c *Clock) IsDeadline() bool { return !c.current.Before(c.end) }

// Progress returns elapsed/total in [0,1], saturating at 1.
func (c *Clock) Progress() float64 {
	total := c.end.Sub(c.start).Seconds()
	if total <= 0 {
		return 1
	}
	p := c.current.Sub(c.start).Seconds() / total
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the virtual time left before the deadline.
func (c *Clock) Remaining() time.Duration {
	if c.IsDeadline() {
		return 0
	}
	return c.end.Sub(c.current)
}

// RemainingMinutes returns the whole in-game minutes left.
func (c *Clock) RemainingMinutes() int {
	return int(c.Remaining().Minutes())
}

// IsTimeBefore reports whether the current time is strictly before target
// ("HH:MM"). A malformed target compares as false.
func (c *Clock) IsTimeBefore(target string) bool {
	t, err := ParseMinute(target)
	if err != nil {
		return false
	}
	return c.current.Before(t)
}

// IsTimeAfter reports whether the current time is strictly after target
// ("HH:MM"). A malformed target compares as false.
func (c *Clock) IsTimeAfter(target string) bool {
	t, err := ParseMinute(target)
	if err != nil {
		return false
	}
	return c.current.After(t)
}

// ElapsedRealSeconds returns the accumulated real time fed into Tick.
func (c *Clock) ElapsedRealSeconds() float64 { return c.totalRealSeconds }

func (c *Clock) String() string {
	status := "STOPPED"
	if c.running {
		status = "RUNNING"
	}
	return fmt.Sprintf("Clock(%s - %s)", c.TimeString(), status)
}
