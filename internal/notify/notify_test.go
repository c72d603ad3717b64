package notify

import (
	"errors"
	"io"
	"log"
	"testing"
)

func TestHubDeliversToRegisteredSession(t *testing.T) {
	hub := NewHub()
	events, unregister := hub.Register("bob")
	defer unregister()

	if err := hub.SendToIdentity("bob", HiredEvent("g1", "Logo design", "b1")); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case event := <-events:
		if event.GigId != "g1" || event.BidId != "b1" || event.Name != "hired" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event.Message != "You have been hired for Logo design!" {
			t.Errorf("unexpected message: %s", event.Message)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestHubFansOutToAllSessions(t *testing.T) {
	hub := NewHub()
	first, stopFirst := hub.Register("bob")
	second, stopSecond := hub.Register("bob")
	defer stopFirst()
	defer stopSecond()

	hub.SendToIdentity("bob", HiredEvent("g1", "t", "b1"))

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one event per session, got %d and %d", len(first), len(second))
	}
}

func TestHubDropsWhenNoSession(t *testing.T) {
	hub := NewHub()
	if err := hub.SendToIdentity("nobody", HiredEvent("g1", "t", "b1")); err != nil {
		t.Fatalf("sending to absent identity must not error, got %v", err)
	}
}

func TestHubDropsAfterUnregister(t *testing.T) {
	hub := NewHub()
	events, unregister := hub.Register("bob")
	unregister()

	hub.SendToIdentity("bob", HiredEvent("g1", "t", "b1"))
	if len(events) != 0 {
		t.Fatalf("event delivered after unregister")
	}
}

func TestHubNeverBlocksOnSlowConsumer(t *testing.T) {
	hub := NewHub()
	events, unregister := hub.Register("bob")
	defer unregister()

	// no reader: fill the buffer and keep going
	for i := 0; i < sessionBuffer+5; i++ {
		hub.SendToIdentity("bob", HiredEvent("g1", "t", "b1"))
	}

	if len(events) != sessionBuffer {
		t.Fatalf("expected %d buffered events, got %d", sessionBuffer, len(events))
	}
}

type failingSender struct {
	calls int
}

func (f *failingSender) SendToIdentity(string, Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	sender := &failingSender{}
	dispatcher := NewDispatcher(sender, log.New(io.Discard, "", 0))

	dispatcher.NotifyHired("bob", "g1", "Logo design", "b1")

	if sender.calls != 1 {
		t.Fatalf("expected one delivery attempt, got %d", sender.calls)
	}
}
