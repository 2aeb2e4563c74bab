package event

import (
	"testing"

	"go.uber.org/zap"
)

func TestPublishInSubscriptionOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var got []string
	bus.Subscribe("ping", func(Payload) { got = append(got, "a") })
	bus.Subscribe("ping", func(Payload) { got = append(got, "b") })
	bus.Subscribe("other", func(Payload) { got = append(got, "x") })

	bus.Publish("ping", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("dispatch order = %v, want [a b]", got)
	}
}

func TestPublishNoSubscribersIsNoop(t *testing.T) {
	bus := NewBus(zap.NewNop())
	bus.Publish("nobody-home", Payload{"k": 1})
}

func TestPanicDoesNotStopDispatch(t *testing.T) {
	bus := NewBus(zap.NewNop())
	ran := false
	bus.Subscribe("boom", func(Payload) { panic("handler exploded") })
	bus.Subscribe("boom", func(Payload) { ran = true })

	bus.Publish("boom", nil)
	if !ran {
		t.Fatal("second handler did not run after first panicked")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())
	calls := 0
	sub := bus.Subscribe("t", func(Payload) { calls++ })
	bus.Publish("t", nil)
	bus.Unsubscribe(sub)
	bus.Publish("t", nil)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if bus.SubscriberCount("t") != 0 {
		t.Fatalf("subscriber count = %d, want 0", bus.SubscriberCount("t"))
	}
}

func TestReentrantPublish(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var got []string
	bus.Subscribe("outer", func(Payload) {
		got = append(got, "outer")
		bus.Publish("inner", nil)
	})
	bus.Subscribe("inner", func(Payload) { got = append(got, "inner") })

	bus.Publish("outer", nil)
	if len(got) != 2 || got[0] != "outer" || got[1] != "inner" {
		t.Fatalf("got %v, want [outer inner]", got)
	}
}

func TestSubscribeDuringDispatchDoesNotCorruptIteration(t *testing.T) {
	bus := NewBus(zap.NewNop())
	lateCalls := 0
	bus.Subscribe("grow", func(Payload) {
		// Mutates the subscriber list of the topic being dispatched.
		bus.Subscribe("grow", func(Payload) { lateCalls++ })
	})

	bus.Publish("grow", nil)
	if lateCalls != 0 {
		t.Fatalf("handler added mid-dispatch ran in the same publish")
	}
	bus.Publish("grow", nil)
	if lateCalls != 1 {
		t.Fatalf("lateCalls = %d, want 1", lateCalls)
	}
}

func TestTapSeesEveryTopic(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var topics []string
	bus.Tap(func(topic string, _ Payload) { topics = append(topics, topic) })

	bus.Publish("a", nil)
	bus.Publish("b", Payload{"v": 2})
	if len(topics) != 2 || topics[0] != "a" || topics[1] != "b" {
		t.Fatalf("tap saw %v, want [a b]", topics)
	}
}

func TestPayloadNilBecomesEmpty(t *testing.T) {
	bus := NewBus(zap.NewNop())
	bus.Subscribe("n", func(p Payload) {
		if p == nil {
			t.Fatal("handler received nil payload")
		}
	})
	bus.Publish("n", nil)
}
