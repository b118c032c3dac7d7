package api

import (
	"testing"
	"time"

	"github.com/ruc-toolchain/rucc/service"
)

func TestBroadcastDeliversToMatchingSubscription(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1", nil)
	defer b.Unsubscribe(sub)

	b.Broadcast(BroadcastEvent{Type: EventTypeStageStart, SessionID: "sess-1", Data: map[string]interface{}{"stage": "preprocess"}})

	select {
	case ev := <-sub.Channel:
		if ev.SessionID != "sess-1" || ev.Type != EventTypeStageStart {
			t.Errorf("got %+v, want sess-1/stage_start", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcastSkipsNonMatchingSession(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1", nil)
	defer b.Unsubscribe(sub)

	b.Broadcast(BroadcastEvent{Type: EventTypeStageStart, SessionID: "sess-2"})

	select {
	case ev := <-sub.Channel:
		t.Fatalf("got unexpected event %+v, want none", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriptionCountTracksRegisterAndUnregister(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	if b.SubscriptionCount() != 0 {
		t.Fatalf("got %d, want 0", b.SubscriptionCount())
	}

	sub := b.Subscribe("", nil)
	waitForCount(t, b, 1)

	b.Unsubscribe(sub)
	waitForCount(t, b, 0)
}

func waitForCount(t *testing.T, b *Broadcaster, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if b.SubscriptionCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscription count never reached %d, got %d", want, b.SubscriptionCount())
}

func TestBroadcastSessionEventShapesDiagnostic(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	sub := b.Subscribe("sess-1", []EventType{EventTypeDiagnostic})
	defer b.Unsubscribe(sub)

	b.BroadcastSessionEvent("sess-1", service.Event{
		Kind:  service.EventDiagnostic,
		Stage: service.StagePreprocess,
		Seq:   3,
		Diagnostic: &service.Diagnostic{
			Severity: service.SeverityError,
			Stage:    service.StagePreprocess,
			File:     "a.c",
			Line:     5,
			Column:   1,
			Message:  "macro FOO redefined",
		},
	})

	select {
	case ev := <-sub.Channel:
		if ev.Type != EventTypeDiagnostic {
			t.Fatalf("got type %v, want diagnostic", ev.Type)
		}
		diag, ok := ev.Data["diagnostic"].(map[string]interface{})
		if !ok {
			t.Fatalf("got %+v, want a nested diagnostic map", ev.Data)
		}
		if diag["message"] != "macro FOO redefined" {
			t.Errorf("got message %v, want the diagnostic text", diag["message"])
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for diagnostic event")
	}
}
