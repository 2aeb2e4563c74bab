package event

import (
	"go.uber.org/zap"
)

// Standard topics published by the game clock.
const (
	TopicTimeTick    = "TIME_TICK"    // payload: {"time": "HH:MM"}, once per in-game minute
	TopicTimeReached = "TIME_REACHED" // payload: {"time": "HH:MM"}
)

// MinuteTopic returns the minute-specific TIME_REACHED topic,
// e.g. "TIME_REACHED:08:31". Used for one-shot subscriptions to a
// particular in-game minute.
func MinuteTopic(minute string) string {
	return TopicTimeReached + ":" + minute
}

// TimelineTopic returns the namespaced topic published alongside a timeline
// entry's own event name, e.g. "TIMELINE:PRINTER_ESCALATE_IF_NOT_FIXED".
func TimelineTopic(name string) string {
	return "TIMELINE:" + name
}

// Payload is the free-form data attached to a published event. Topics carry
// no schema; handlers read the keys they expect.
type Payload map[string]any

// Handler receives the payload of a published event. Handlers run
// synchronously on the publishing call stack, in subscription order.
type Handler func(Payload)

// TapFunc observes every published event regardless of topic. Taps exist for
// outward feeds (observer transport, debug logging); game logic subscribes to
// explicit topics instead.
type TapFunc func(topic string, payload Payload)

// Subscription identifies one (topic, handler) registration so it can be
// removed later.
type Subscription struct {
	topic string
	id    uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous topic-exact publish/subscribe dispatcher. It is owned
// by the gameplay session and accessed only from the simulation loop
// goroutine — no locks needed.
//
// Handlers may publish further events from inside a handler; dispatch
// iterates over a snapshot of the subscriber list, so mutating subscriptions
// mid-dispatch never corrupts iteration. A handler that panics is logged and
// skipped; the remaining handlers still run.
type Bus struct {
	log    *zap.Logger
	subs   map[string][]subscriber
	taps   []TapFunc
	nextID uint64
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: make(map[string][]subscriber),
	}
}

// Subscribe registers a handler for an exact topic. The returned
// Subscription can be passed to Unsubscribe.
func (b *Bus) Subscribe(topic string, h Handler) Subscription {
	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: b.nextID, handler: h})
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown subscriptions
// are a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Tap registers an observer invoked for every published event, after the
// topic's subscribers. Taps cannot be removed; they live as long as the bus.
func (b *Bus) Tap(fn TapFunc) {
	b.taps = append(b.taps, fn)
}

// Publish dispatches payload to every subscriber of topic, synchronously and
// in subscription order. Publishing on a topic with no subscribers is a
// no-op (taps still see it). A nil payload is delivered as an empty one.
func (b *Bus) Publish(topic string, payload Payload) {
	if payload == nil {
		payload = Payload{}
	}
	// Snapshot: handlers may subscribe/unsubscribe during dispatch.
	list := b.subs[topic]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)

	for _, s := range snapshot {
		b.invoke(topic, s, payload)
	}
	for _, tap := range b.taps {
		tap(topic, payload)
	}
}

// SubscriberCount reports how many handlers are registered for a topic.
func (b *Bus) SubscriberCount(topic string) int {
	return len(b.subs[topic])
}

func (b *Bus) invoke(topic string, s subscriber, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				zap.String("topic", topic),
				zap.Any("panic", r))
		}
	}()
	s.handler(payload)
}
