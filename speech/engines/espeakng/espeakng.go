// Package espeakng synthesizes speech through the espeak-ng command line
// tool and plays the result through the process audio device. espeak-ng is
// packaged on every major Linux distribution and needs no voice model
// downloads, which makes it the default engine for classroom machines.
package espeakng

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vokabel/vokabel/speech"
	"github.com/vokabel/vokabel/speech/audio"
)

// espeak-ng emits 22050 Hz 16-bit mono WAV on --stdout.
const (
	SampleRate = 22050
	Channels   = 1

	// baseWPM is espeak-ng's default speaking rate; the rate multiplier
	// scales it.
	baseWPM = 175
	minWPM  = 80
	maxWPM  = 450
)

// Config configures the engine.
type Config struct {
	// Binary is the espeak-ng executable. Empty means search PATH and the
	// usual install locations.
	Binary string

	// Language narrows the voice list and provides the synthesis fallback
	// voice.
	Language string

	// CacheDir enables the on-disk pronunciation cache when non-empty.
	CacheDir string

	// CacheSize caps the cache in bytes.
	CacheSize int64

	// SynthTimeout bounds one synthesis subprocess run.
	SynthTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig(language string) Config {
	return Config{
		Language:     language,
		CacheSize:    64 << 20,
		SynthTimeout: 10 * time.Second,
	}
}

// Engine implements speech.Engine on top of the espeak-ng subprocess.
// Synthesis and playback run on a goroutine per request; a generation
// counter silences requests that were cancelled or superseded.
type Engine struct {
	cfg    Config
	binary string
	player audio.Player
	cache  *audio.Cache

	mu         sync.Mutex
	voices     []speech.Voice
	onVoices   func()
	generation int
	cancelCh   chan struct{}
	pending    bool
	speaking   bool
	paused     bool
	closed     bool
}

// New builds the engine, resolves the binary, and kicks off the voice list
// load in the background. Returns an error only when the binary cannot be
// found; an empty voice list is a degraded state the catalog handles.
func New(cfg Config, player audio.Player) (*Engine, error) {
	binary, err := findBinary(cfg.Binary)
	if err != nil {
		return nil, err
	}
	if cfg.SynthTimeout <= 0 {
		cfg.SynthTimeout = 10 * time.Second
	}

	e := &Engine{
		cfg:      cfg,
		binary:   binary,
		player:   player,
		cancelCh: make(chan struct{}),
	}

	if cfg.CacheDir != "" {
		cache, err := audio.NewCache(cfg.CacheDir, cfg.CacheSize)
		if err != nil {
			log.Warn("pronunciation cache disabled", "err", err)
		} else {
			e.cache = cache
		}
	}

	go e.loadVoices()
	return e, nil
}

// findBinary resolves the espeak-ng executable from PATH or the common
// install locations.
func findBinary(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("espeak-ng binary not found at %s: %w", configured, err)
		}
		return configured, nil
	}

	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	home, _ := os.UserHomeDir()
	for _, path := range []string{
		"/usr/bin/espeak-ng",
		"/usr/local/bin/espeak-ng",
		"/opt/homebrew/bin/espeak-ng",
		filepath.Join(home, ".local/bin/espeak-ng"),
	} {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("espeak-ng binary not found; install the espeak-ng package")
}

// loadVoices runs `espeak-ng --voices` and publishes the parsed list. The
// list arrives asynchronously, mirroring platforms that populate voices
// after startup.
func (e *Engine) loadVoices() {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SynthTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
	if err != nil {
		log.Warn("could not list espeak-ng voices", "err", err)
		return
	}

	voices := parseVoices(string(out), e.cfg.Language)
	if len(voices) == 0 {
		return
	}

	e.mu.Lock()
	e.voices = voices
	fn := e.onVoices
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Submit implements speech.Engine.
func (e *Engine) Submit(req speech.Request, notify func(speech.Event)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return fmt.Errorf("engine closed")
	}
	e.generation++
	gen := e.generation
	cancelCh := e.cancelCh
	e.pending = true
	e.mu.Unlock()

	go e.run(gen, cancelCh, req, notify)
	return nil
}

// run synthesizes and plays one request. Every notify is gated on the
// generation still being current so cancelled requests stay silent.
func (e *Engine) run(gen int, cancelCh chan struct{}, req speech.Request, notify func(speech.Event)) {
	pcm, err := e.synthesize(req)
	if err != nil {
		if e.finish(gen) {
			notify(speech.Event{Kind: speech.EventError, Err: err})
		}
		return
	}
	e.play(gen, cancelCh, pcm, notify)
}

// play hands the PCM to the player and reports start/end. A Cancel may land
// at any point, including between Play and the start notify, so every event
// is gated on the generation still being current.
func (e *Engine) play(gen int, cancelCh chan struct{}, pcm []byte, notify func(speech.Event)) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	e.pending = false
	e.speaking = true
	e.mu.Unlock()

	done, err := e.player.Play(pcm)
	if err != nil {
		if e.finish(gen) {
			notify(speech.Event{Kind: speech.EventError, Err: fmt.Errorf("audio playback: %w", err)})
		}
		return
	}
	if !e.stillCurrent(gen) {
		return
	}
	notify(speech.Event{Kind: speech.EventStart})

	select {
	case <-done:
		if e.finish(gen) {
			notify(speech.Event{Kind: speech.EventEnd})
		}
	case <-cancelCh:
	}
}

func (e *Engine) stillCurrent(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// finish clears the playing flags if gen is still current and reports
// whether it was.
func (e *Engine) finish(gen int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return false
	}
	e.pending = false
	e.speaking = false
	e.paused = false
	return true
}

// synthesize produces PCM for the request, consulting the cache first.
func (e *Engine) synthesize(req speech.Request) ([]byte, error) {
	voice := req.VoiceID
	if voice == "" {
		voice = e.cfg.Language
	}

	var key string
	if e.cache != nil {
		key = audio.Key(req.Text, voice, req.Rate, req.Pitch)
		if pcm, ok := e.cache.Get(key); ok {
			return applyVolume(pcm, req.Volume), nil
		}
	}

	args := buildArgs(voice, req)
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.SynthTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, args...)
	// Let espeak-ng flush its WAV trailer before the hard kill.
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGINT) }
	cmd.WaitDelay = 500 * time.Millisecond

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("espeak-ng timed out after %v", e.cfg.SynthTimeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("espeak-ng: %s", msg)
		}
		return nil, fmt.Errorf("espeak-ng: %w", err)
	}
	log.Debug("synthesized", "chars", len(req.Text), "voice", voice, "took", time.Since(start))

	pcm, _, err := decodeWAV(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode espeak-ng output: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("espeak-ng produced no audio")
	}

	if e.cache != nil {
		if err := e.cache.Put(key, pcm); err != nil {
			log.Debug("cache write failed", "err", err)
		}
	}
	return applyVolume(pcm, req.Volume), nil
}

// buildArgs maps prosody onto espeak-ng flags. Rate is a multiplier over
// the default words-per-minute; pitch maps onto espeak's 0..99 scale with
// 50 as neutral; volume maps onto amplitude 0..200 with 100 as neutral.
func buildArgs(voice string, req speech.Request) []string {
	wpm := int(float64(baseWPM) * req.Rate)
	if wpm < minWPM {
		wpm = minWPM
	}
	if wpm > maxWPM {
		wpm = maxWPM
	}

	pitch := int(req.Pitch * 50)
	if pitch < 0 {
		pitch = 0
	}
	if pitch > 99 {
		pitch = 99
	}

	args := []string{
		"--stdout",
		"-v", voice,
		"-s", fmt.Sprint(wpm),
		"-p", fmt.Sprint(pitch),
		"-a", "100",
		"--", req.Text,
	}
	return args
}

// applyVolume scales 16-bit samples in software. Doing it here instead of
// with espeak's -a flag keeps cached entries volume-independent.
func applyVolume(pcm []byte, volume float64) []byte {
	if volume >= 1.0 {
		return pcm
	}
	if volume < 0 {
		volume = 0
	}
	out := make([]byte, len(pcm))
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		scaled := int16(float64(sample) * volume)
		out[i] = byte(uint16(scaled))
		out[i+1] = byte(uint16(scaled) >> 8)
	}
	return out
}

// Cancel implements speech.Engine. In-flight synthesis results and playback
// completions for earlier submissions are discarded.
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.generation++
	close(e.cancelCh)
	e.cancelCh = make(chan struct{})
	e.pending = false
	e.speaking = false
	e.paused = false
	e.mu.Unlock()

	e.player.Stop()
}

// Pause implements speech.Engine.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.speaking || e.paused {
		e.mu.Unlock()
		return
	}
	e.paused = true
	e.mu.Unlock()

	if err := e.player.Pause(); err != nil {
		log.Debug("pause ignored", "err", err)
	}
}

// Resume implements speech.Engine.
func (e *Engine) Resume() {
	e.mu.Lock()
	if !e.paused {
		e.mu.Unlock()
		return
	}
	e.paused = false
	e.mu.Unlock()

	if err := e.player.Resume(); err != nil {
		log.Debug("resume ignored", "err", err)
	}
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
	e.Cancel()

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	if e.cache != nil {
		e.cache.Close()
	}
	return e.player.Close()
}
