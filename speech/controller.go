package speech

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ControllerConfig holds construction-time configuration for a Controller.
type ControllerConfig struct {
	// Language is the target language prefix for voice selection.
	Language string

	// Settings are the initial prosody settings. Zero values fall back to
	// DefaultSettings.
	Settings Settings

	// StartTimeout bounds how long a submitted request may wait for the
	// engine's start event before it is failed.
	StartTimeout time.Duration

	// LivenessDelay is how long after submission the controller probes the
	// engine: if by then nothing is pending or speaking and no start was
	// seen, the request is failed.
	LivenessDelay time.Duration
}

// DefaultControllerConfig returns the production defaults.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Language:      "en",
		Settings:      DefaultSettings(),
		StartTimeout:  3 * time.Second,
		LivenessDelay: time.Second,
	}
}

// Controller drives exactly one utterance at a time through the engine. A
// new Speak always cancels and supersedes any in-flight request; there is
// no queueing. The design assumes a single controller instance owns the
// engine for the lifetime of the process.
type Controller struct {
	engine  Engine
	catalog *Catalog

	mu       sync.Mutex
	machine  *Machine
	settings Settings
	current  *pending
	closed   bool

	onState func(State)
	onError func(error)

	startTimeout  time.Duration
	livenessDelay time.Duration
}

// pending is the settle-once result of one Speak call. Both a timeout and a
// late engine event may race to settle it; the sync.Once guarantees exactly
// one wins.
type pending struct {
	ch      chan error
	once    sync.Once
	started atomic.Bool

	timerMu sync.Mutex
	timers  []*time.Timer
}

func newPending() *pending {
	return &pending{ch: make(chan error, 1)}
}

func (p *pending) settle(err error) {
	p.once.Do(func() {
		p.timerMu.Lock()
		for _, t := range p.timers {
			t.Stop()
		}
		p.timers = nil
		p.timerMu.Unlock()

		p.ch <- err
		close(p.ch)
	})
}

func (p *pending) addTimer(t *time.Timer) {
	p.timerMu.Lock()
	p.timers = append(p.timers, t)
	p.timerMu.Unlock()
}

// settled returns a pre-resolved result channel.
func settled(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}

// NewController wires a controller to the given engine. A nil engine means
// synthesis is unavailable on this platform and yields ErrNotSupported; the
// caller should fall back to a feature-unavailable state rather than retry.
func NewController(engine Engine, cfg ControllerConfig) (*Controller, error) {
	if engine == nil {
		return nil, ErrNotSupported
	}
	def := DefaultControllerConfig()
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = def.StartTimeout
	}
	if cfg.LivenessDelay <= 0 {
		cfg.LivenessDelay = def.LivenessDelay
	}

	settings := cfg.Settings
	if settings.Rate == 0 {
		settings.Rate = def.Settings.Rate
	}
	if settings.Pitch == 0 {
		settings.Pitch = def.Settings.Pitch
	}
	if settings.Volume == 0 {
		settings.Volume = def.Settings.Volume
	}
	settings = settings.Clamped()

	c := &Controller{
		engine:        engine,
		catalog:       NewCatalog(engine, cfg.Language),
		machine:       NewMachine(),
		settings:      settings,
		startTimeout:  cfg.StartTimeout,
		livenessDelay: cfg.LivenessDelay,
	}

	// A persisted voice ID may no longer exist after a voice-list change
	// between sessions. Correct it now rather than submitting a stale
	// reference.
	if c.settings.VoiceID != "" && !c.catalog.Contains(c.settings.VoiceID) {
		c.settings.VoiceID = c.fallbackVoiceID()
	}

	return c, nil
}

// Catalog returns the controller's voice catalog.
func (c *Controller) Catalog() *Catalog {
	return c.catalog
}

// Speak pronounces text with the current settings. The returned channel
// settles exactly once: nil on completion, ErrSynthesisFailed on engine
// failure or timeout, ErrInterrupted if a newer Speak or a Stop superseded
// this request. Text that is empty after trimming settles nil immediately
// without touching the engine.
func (c *Controller) Speak(text string) <-chan error {
	text = strings.TrimSpace(text)
	if text == "" {
		return settled(nil)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return settled(ErrControllerClosed)
	}

	// Cancel-before-submit: at most one request is ever live at the
	// engine. The superseded caller gets ErrInterrupted (see DESIGN.md on
	// why we settle instead of abandoning the channel).
	c.cancelCurrentLocked(ErrInterrupted)

	req := Request{
		Text:    text,
		Rate:    c.settings.Rate,
		Pitch:   c.settings.Pitch,
		Volume:  c.settings.Volume,
		VoiceID: c.requestVoiceIDLocked(),
	}

	p := newPending()
	c.current = p

	p.addTimer(time.AfterFunc(c.startTimeout, func() {
		c.failIfUnstarted(p, fmt.Errorf("%w: no start within %v", ErrSynthesisFailed, c.startTimeout))
	}))
	p.addTimer(time.AfterFunc(c.livenessDelay, func() {
		c.probeLiveness(p)
	}))
	c.mu.Unlock()

	// Submit outside the lock: engines may deliver events synchronously.
	if err := c.engine.Submit(req, func(ev Event) { c.handleEvent(p, ev) }); err != nil {
		c.mu.Lock()
		if c.current == p {
			c.current = nil
			c.toIdleLocked()
		}
		c.mu.Unlock()
		failure := fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
		c.reportError(failure)
		p.settle(failure)
	}

	return p.ch
}

// handleEvent processes one engine notification for the request p. Events
// for superseded requests are ignored; the settle-once guard absorbs any
// late duplicates.
func (c *Controller) handleEvent(p *pending, ev Event) {
	switch ev.Kind {
	case EventStart:
		p.started.Store(true)
		c.mu.Lock()
		if c.current == p {
			c.transitionLocked(StateSpeaking)
		}
		c.mu.Unlock()

	case EventEnd:
		c.mu.Lock()
		if c.current == p {
			c.current = nil
			c.toIdleLocked()
		}
		c.mu.Unlock()
		p.settle(nil)

	case EventError:
		c.mu.Lock()
		if c.current == p {
			c.current = nil
			c.toIdleLocked()
		}
		c.mu.Unlock()
		failure := ErrSynthesisFailed
		if ev.Err != nil {
			failure = fmt.Errorf("%w: %v", ErrSynthesisFailed, ev.Err)
		}
		c.reportError(failure)
		p.settle(failure)
	}
}

// failIfUnstarted fails p unless the engine already confirmed a start.
func (c *Controller) failIfUnstarted(p *pending, failure error) {
	if p.started.Load() {
		return
	}
	c.mu.Lock()
	if c.current != p {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.engine.Cancel()
	c.toIdleLocked()
	c.mu.Unlock()

	c.reportError(failure)
	p.settle(failure)
}

// probeLiveness checks the engine shortly after submission: if the request
// neither started nor is still pending, the engine dropped it silently.
func (c *Controller) probeLiveness(p *pending) {
	if p.started.Load() || c.engine.Pending() || c.engine.Speaking() {
		return
	}
	c.failIfUnstarted(p, fmt.Errorf("%w: engine went idle without speaking", ErrSynthesisFailed))
}

// Pause suspends the current utterance. A no-op unless speaking.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.machine.CanPause() {
		return
	}
	c.engine.Pause()
	c.transitionLocked(StatePaused)
}

// Resume continues a paused utterance. A no-op unless paused.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.machine.CanResume() {
		return
	}
	c.engine.Resume()
	c.transitionLocked(StateSpeaking)
}

// Stop cancels any active or pending request and returns to Idle.
// Idempotent; stopping an idle controller only issues a cancellation
// request to the engine.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.cancelCurrentLocked(ErrInterrupted)
	c.engine.Cancel()
	c.toIdleLocked()
}

// IsSpeaking reports whether an utterance is playing.
func (c *Controller) IsSpeaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current() == StateSpeaking
}

// IsPaused reports whether an utterance is suspended.
func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current() == StatePaused
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// UpdateSettings merges the patch into the current settings. A voice ID
// that does not exist in the catalog snapshot is silently replaced with the
// optimal selection: stale IDs must not survive a voice-list refresh, even
// at the cost of discarding an explicit (but invalid) choice.
func (c *Controller) UpdateSettings(patch SettingsPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if patch.Rate != nil {
		c.settings.Rate = clamp(*patch.Rate, MinRate, MaxRate)
	}
	if patch.Pitch != nil {
		c.settings.Pitch = clamp(*patch.Pitch, MinPitch, MaxPitch)
	}
	if patch.Volume != nil {
		c.settings.Volume = clamp(*patch.Volume, MinVolume, MaxVolume)
	}
	if patch.VoiceID != nil {
		id := *patch.VoiceID
		if id != "" && !c.catalog.Contains(id) {
			log.Debug("unknown voice requested, falling back", "voice", id)
			id = c.fallbackVoiceID()
		}
		c.settings.VoiceID = id
	}
}

// Settings returns a snapshot of the current settings for the caller to
// persist.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Voices returns the catalog snapshot for the controller's language.
func (c *Controller) Voices() []Voice {
	return c.catalog.Voices(c.catalog.Language())
}

// OnStateChange registers a callback invoked after each state transition.
func (c *Controller) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// OnError registers a callback for per-request failures. Benign outcomes
// (ErrInterrupted) are never reported here.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// Close stops playback, deregisters from engine notifications, and shuts
// the engine down. The controller is unusable afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancelCurrentLocked(ErrInterrupted)
	c.engine.Cancel()
	c.toIdleLocked()
	c.mu.Unlock()

	c.engine.OnVoicesChanged(nil)
	return c.engine.Close()
}

// cancelCurrentLocked settles and detaches the in-flight request, if any,
// and asks the engine to cancel it. Caller holds c.mu.
func (c *Controller) cancelCurrentLocked(reason error) {
	if c.current == nil {
		return
	}
	cur := c.current
	c.current = nil
	c.engine.Cancel()
	c.toIdleLocked()
	cur.settle(reason)
}

// requestVoiceIDLocked resolves the voice for the next request: the
// configured voice if it still exists, otherwise the optimal selection,
// otherwise unset (engine default). Caller holds c.mu.
func (c *Controller) requestVoiceIDLocked() string {
	if c.settings.VoiceID != "" && c.catalog.Contains(c.settings.VoiceID) {
		return c.settings.VoiceID
	}
	return c.fallbackVoiceID()
}

func (c *Controller) fallbackVoiceID() string {
	if v, ok := c.catalog.SelectOptimal(c.catalog.Language()); ok {
		return v.ID
	}
	return ""
}

func (c *Controller) toIdleLocked() {
	c.transitionLocked(StateIdle)
}

func (c *Controller) transitionLocked(to State) {
	from := c.machine.Current()
	if !c.machine.Transition(to) {
		log.Debug("invalid playback transition", "from", from, "to", to)
		return
	}
	if from != to && c.onState != nil {
		c.onState(to)
	}
}

func (c *Controller) reportError(err error) {
	log.Debug("playback request failed", "err", err)
	c.mu.Lock()
	fn := c.onError
	c.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}
