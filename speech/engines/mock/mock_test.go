package mock

import (
	"testing"
	"time"

	"github.com/vokabel/vokabel/speech"
)

func collectEvents(t *testing.T, e *Engine, req speech.Request, want int) []speech.Event {
	t.Helper()
	ch := make(chan speech.Event, 8)
	if err := e.Submit(req, func(ev speech.Event) { ch <- ev }); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var events []speech.Event
	timeout := time.After(time.Second)
	for len(events) < want {
		select {
		case ev := <-ch:
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("got %d events, want %d", len(events), want)
		}
	}
	return events
}

func TestSuccessDeliversStartAndEnd(t *testing.T) {
	e := New()
	events := collectEvents(t, e, speech.Request{Text: "hi"}, 2)

	if events[0].Kind != speech.EventStart || events[1].Kind != speech.EventEnd {
		t.Errorf("events = %v", events)
	}
	if e.Submits() != 1 {
		t.Errorf("Submits = %d", e.Submits())
	}
	if e.LastText() != "hi" {
		t.Errorf("LastText = %q", e.LastText())
	}
}

func TestErrorOutcomes(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		e := New()
		e.SetOutcome(OutcomeError)
		events := collectEvents(t, e, speech.Request{Text: "x"}, 1)
		if events[0].Kind != speech.EventError || events[0].Err == nil {
			t.Errorf("events = %v", events)
		}
	})

	t.Run("after start", func(t *testing.T) {
		e := New()
		e.SetOutcome(OutcomeErrorAfterStart)
		events := collectEvents(t, e, speech.Request{Text: "x"}, 2)
		if events[0].Kind != speech.EventStart || events[1].Kind != speech.EventError {
			t.Errorf("events = %v", events)
		}
	})
}

func TestCancelSilencesInFlight(t *testing.T) {
	e := New()
	e.SetDelay(100 * time.Millisecond)

	got := make(chan speech.Event, 8)
	if err := e.Submit(speech.Request{Text: "quiet"}, func(ev speech.Event) { got <- ev }); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Let the start fire, then cancel mid-utterance.
	select {
	case ev := <-got:
		if ev.Kind != speech.EventStart {
			t.Fatalf("first event = %v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no start event")
	}
	e.Cancel()

	select {
	case ev := <-got:
		t.Fatalf("event %v delivered after Cancel", ev)
	case <-time.After(200 * time.Millisecond):
	}

	if e.Speaking() || e.Pending() {
		t.Error("engine still live after Cancel")
	}
	if e.Cancels() != 1 {
		t.Errorf("Cancels = %d", e.Cancels())
	}
}

func TestSilentAndHangFlags(t *testing.T) {
	e := New()
	e.SetOutcome(OutcomeSilent)
	if err := e.Submit(speech.Request{Text: "x"}, func(speech.Event) {}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if e.Pending() {
		t.Error("silent outcome left the engine pending")
	}

	e.SetOutcome(OutcomeHang)
	if err := e.Submit(speech.Request{Text: "x"}, func(speech.Event) {}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !e.Pending() {
		t.Error("hang outcome should stay pending")
	}
}

func TestVoicesChangedNotification(t *testing.T) {
	e := New()
	fired := make(chan struct{}, 1)
	e.OnVoicesChanged(func() { fired <- struct{}{} })

	voices := []speech.Voice{{ID: "de", Language: "de", Local: true}}
	e.TriggerVoicesChanged(voices)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("notification never fired")
	}
	got := e.Voices()
	if len(got) != 1 || got[0].ID != "de" {
		t.Errorf("Voices = %v", got)
	}
}

func TestClosedEngineRejectsSubmit(t *testing.T) {
	e := New()
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := e.Submit(speech.Request{Text: "x"}, func(speech.Event) {}); err == nil {
		t.Error("Submit succeeded on a closed engine")
	}
}
