// Package speech drives pronunciation playback for vocabulary words. It
// wraps a synthesis engine behind a small controller that guarantees at most
// one utterance is live at a time, tracks playback state, and reports
// terminal outcomes per request.
package speech

// Voice describes one synthesis voice offered by an engine.
type Voice struct {
	ID       string // Stable identifier, unique within the engine
	Name     string // Human-readable name
	Language string // BCP 47-ish language tag (e.g. "en-US")
	Local    bool   // True if synthesis happens on-device
	Default  bool   // True if the engine considers this its default voice
}

// Request is a single synthesis job: the text plus the prosody parameters
// and voice it should be spoken with. A Request is built per Speak call and
// is immutable once submitted to the engine.
type Request struct {
	Text    string
	Rate    float64 // Speaking speed multiplier, 0.1 to 10, 1.0 = normal
	Pitch   float64 // 0 to 2, 1.0 = normal
	Volume  float64 // 0 to 1
	VoiceID string  // Empty means the engine default
}

// Settings holds the long-lived prosody configuration. It is created once
// at controller construction, mutated through UpdateSettings, and persisted
// by the caller between sessions.
type Settings struct {
	Rate    float64 `json:"rate"`
	Pitch   float64 `json:"pitch"`
	Volume  float64 `json:"volume"`
	VoiceID string  `json:"voice_id"`
}

// DefaultSettings returns neutral prosody with no explicit voice.
func DefaultSettings() Settings {
	return Settings{
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 1.0,
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their current
// value.
type SettingsPatch struct {
	Rate    *float64
	Pitch   *float64
	Volume  *float64
	VoiceID *string
}

// Prosody bounds. Values outside these ranges are clamped, not rejected.
const (
	MinRate   = 0.1
	MaxRate   = 10.0
	MinPitch  = 0.0
	MaxPitch  = 2.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy of s with all prosody values forced into range.
func (s Settings) Clamped() Settings {
	s.Rate = clamp(s.Rate, MinRate, MaxRate)
	s.Pitch = clamp(s.Pitch, MinPitch, MaxPitch)
	s.Volume = clamp(s.Volume, MinVolume, MaxVolume)
	return s
}

// EventKind identifies a playback event reported by an engine.
type EventKind int

const (
	// EventStart fires when the engine actually begins speaking a request.
	EventStart EventKind = iota
	// EventEnd fires when a request finishes playing to completion.
	EventEnd
	// EventError fires when a submitted request fails.
	EventError
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one playback notification from the engine. Err is set only for
// EventError.
type Event struct {
	Kind EventKind
	Err  error
}

// Engine is the platform synthesis boundary. Implementations deliver
// start/end/error events for each submitted request through the notify
// callback, possibly from another goroutine.
//
// A cancelled request must go silent: after Cancel returns, the engine may
// not deliver further events for requests submitted before the call.
type Engine interface {
	// Submit queues a request for synthesis and playback. A non-nil error
	// means the request was never accepted; otherwise the outcome arrives
	// through notify.
	Submit(req Request, notify func(Event)) error

	// Cancel discards any in-flight or queued request. Safe to call when
	// nothing is playing.
	Cancel()

	// Pause suspends the current utterance; Resume continues it.
	Pause()
	Resume()

	// Engine-reported status flags. These may lag the controller's own
	// state: they reflect what the platform has observed, not what the
	// caller has requested.
	Speaking() bool
	Pending() bool
	Paused() bool

	// Voices returns the voices currently known to the engine. May be
	// empty shortly after construction: some engines load voices
	// asynchronously and announce them via OnVoicesChanged.
	Voices() []Voice

	// OnVoicesChanged registers fn to run whenever the voice list changes.
	// The notification may fire zero or many times. Passing nil
	// deregisters.
	OnVoicesChanged(fn func())

	// Close releases engine resources. The engine is unusable afterwards.
	Close() error
}
