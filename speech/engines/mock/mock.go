// Package mock provides a scriptable speech engine for tests and for
// running the trainer on machines without a synthesizer installed.
package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/vokabel/vokabel/speech"
)

// Outcome scripts how the engine handles the next submissions.
type Outcome int

const (
	// OutcomeSuccess delivers start then end after the configured delay.
	OutcomeSuccess Outcome = iota
	// OutcomeError delivers an error without ever starting.
	OutcomeError
	// OutcomeErrorAfterStart delivers start, then an error mid-utterance.
	OutcomeErrorAfterStart
	// OutcomeSilent accepts the request and delivers nothing, with the
	// engine reporting itself idle. Models a platform that drops requests.
	OutcomeSilent
	// OutcomeHang accepts the request and delivers nothing, with the
	// request stuck pending forever.
	OutcomeHang
)

// Engine is an in-memory speech.Engine whose behavior is scripted per test.
// All knobs are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	outcome Outcome
	delay   time.Duration
	err     error

	voices     []speech.Voice
	onVoices   func()
	generation int
	speaking   bool
	pending    bool
	paused     bool

	submits   int
	cancels   int
	lastText  string
	lastVoice string
	closed    bool
}

// New returns a mock engine with one local English voice and instant
// successful playback.
func New() *Engine {
	return &Engine{
		delay: time.Millisecond,
		voices: []speech.Voice{
			{ID: "mock-en", Name: "Mock English", Language: "en-US", Local: true, Default: true},
		},
	}
}

// SetOutcome scripts how subsequent submissions behave.
func (e *Engine) SetOutcome(o Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outcome = o
}

// SetDelay sets the simulated playback duration.
func (e *Engine) SetDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// SetError sets the error delivered by failing outcomes.
func (e *Engine) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// SetVoices replaces the voice list without firing the change notification.
func (e *Engine) SetVoices(v []speech.Voice) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices = v
}

// TriggerVoicesChanged replaces the voice list and fires the registered
// change notification, as an asynchronously loading platform would.
func (e *Engine) TriggerVoicesChanged(v []speech.Voice) {
	e.mu.Lock()
	e.voices = v
	fn := e.onVoices
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Submits returns how many requests were submitted.
func (e *Engine) Submits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submits
}

// Cancels returns how many times Cancel was called.
func (e *Engine) Cancels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// LastText returns the text of the most recent submission.
func (e *Engine) LastText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastText
}

// LastVoice returns the voice ID of the most recent submission.
func (e *Engine) LastVoice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastVoice
}

// Submit implements speech.Engine. The scripted outcome plays out on a
// separate goroutine; a Cancel issued before an event fires suppresses it.
func (e *Engine) Submit(req speech.Request, notify func(speech.Event)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("mock engine closed")
	}
	e.submits++
	e.lastText = req.Text
	e.lastVoice = req.VoiceID
	e.generation++
	gen := e.generation
	outcome := e.outcome
	delay := e.delay
	failure := e.err
	if failure == nil {
		failure = errors.New("scripted synthesis failure")
	}

	switch outcome {
	case OutcomeSilent:
		e.pending = false
		e.mu.Unlock()
		return nil
	case OutcomeHang:
		e.pending = true
		e.mu.Unlock()
		return nil
	}
	e.pending = true
	e.mu.Unlock()

	go func() {
		if outcome == OutcomeError {
			time.Sleep(delay)
			e.deliver(gen, notify, speech.Event{Kind: speech.EventError, Err: failure}, false)
			return
		}

		e.deliver(gen, notify, speech.Event{Kind: speech.EventStart}, true)
		time.Sleep(delay)
		if outcome == OutcomeErrorAfterStart {
			e.deliver(gen, notify, speech.Event{Kind: speech.EventError, Err: failure}, false)
			return
		}
		e.deliver(gen, notify, speech.Event{Kind: speech.EventEnd}, false)
	}()
	return nil
}

// deliver fires ev unless the request's generation was cancelled.
func (e *Engine) deliver(gen int, notify func(speech.Event), ev speech.Event, speaking bool) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	e.speaking = speaking
	e.pending = speaking
	if !speaking {
		e.paused = false
	}
	e.mu.Unlock()
	notify(ev)
}

// Cancel implements speech.Engine. Pending deliveries for earlier
// submissions are dropped.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels++
	e.generation++
	e.speaking = false
	e.pending = false
	e.paused = false
}

// Pause implements speech.Engine.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speaking {
		e.paused = true
	}
}

// Resume implements speech.Engine.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Speaking implements speech.Engine.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speaking
}

// Pending implements speech.Engine.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Paused implements speech.Engine.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Voices implements speech.Engine.
func (e *Engine) Voices() []speech.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]speech.Voice, len(e.voices))
	copy(out, e.voices)
	return out
}

// OnVoicesChanged implements speech.Engine.
func (e *Engine) OnVoicesChanged(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onVoices = fn
}

// Close implements speech.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.generation++
	e.speaking = false
	e.pending = false
	return nil
}
