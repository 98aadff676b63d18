package speech

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Catalog exposes the set of voices usable for a target language and picks
// a default. Voice lists load lazily on some engines, so the catalog
// subscribes to the engine's change notification and re-runs selection each
// time it fires.
type Catalog struct {
	engine   Engine
	language string

	mu     sync.RWMutex
	voices []Voice
	ready  chan struct{} // closed once at least one voice is known
	once   sync.Once
}

// NewCatalog builds a catalog for the given target language prefix (e.g.
// "en") and registers for voice-list change notifications.
func NewCatalog(engine Engine, language string) *Catalog {
	c := &Catalog{
		engine:   engine,
		language: language,
		ready:    make(chan struct{}),
	}
	c.refresh()
	engine.OnVoicesChanged(c.refresh)
	return c
}

// refresh snapshots the engine's voice list and re-runs default selection.
// Tolerates firing zero or many times.
func (c *Catalog) refresh() {
	voices := c.engine.Voices()

	c.mu.Lock()
	c.voices = voices
	c.mu.Unlock()

	if len(voices) > 0 {
		c.once.Do(func() { close(c.ready) })
		if v, ok := c.SelectOptimal(c.language); ok {
			log.Debug("voice catalog refreshed", "voices", len(voices), "selected", v.ID)
		}
	}
}

// Language returns the catalog's target language prefix.
func (c *Catalog) Language() string {
	return c.language
}

// Voices returns a snapshot of the voices whose language tag matches the
// given prefix. An empty prefix matches everything.
func (c *Catalog) Voices(language string) []Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Voice, 0, len(c.voices))
	for _, v := range c.voices {
		if matchLanguage(v.Language, language) {
			out = append(out, v)
		}
	}
	return out
}

// SelectOptimal picks the best voice for the language prefix: first a local
// voice matching the language, then any matching voice, then none. Ties
// break on enumeration order.
func (c *Catalog) SelectOptimal(language string) (Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var fallback *Voice
	for i, v := range c.voices {
		if !matchLanguage(v.Language, language) {
			continue
		}
		if v.Local {
			return v, true
		}
		if fallback == nil {
			fallback = &c.voices[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Voice{}, false
}

// Contains reports whether a voice with the given ID exists in the current
// snapshot.
func (c *Catalog) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.voices {
		if v.ID == id {
			return true
		}
	}
	return false
}

// WaitReady blocks until the engine has announced at least one voice, or
// the timeout elapses. A timeout yields ErrNoVoicesAvailable; callers may
// still attempt playback with the voice unset.
func (c *Catalog) WaitReady(timeout time.Duration) error {
	select {
	case <-c.ready:
		return nil
	case <-time.After(timeout):
		log.Warn("no voices announced before deadline", "timeout", timeout, "language", c.language)
		return ErrNoVoicesAvailable
	}
}

// matchLanguage reports whether tag matches the prefix on a subtag
// boundary: "en" matches "en" and "en-US" but not "enm".
func matchLanguage(tag, prefix string) bool {
	if prefix == "" {
		return true
	}
	tag = strings.ToLower(strings.ReplaceAll(tag, "_", "-"))
	prefix = strings.ToLower(strings.ReplaceAll(prefix, "_", "-"))
	return tag == prefix || strings.HasPrefix(tag, prefix+"-")
}
