// Package audio plays raw PCM through the system audio device and caches
// synthesized pronunciations on disk so repeated listens of the same word
// skip the synthesizer.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays 16-bit little-endian PCM and reports completion per clip.
// Implementations must tolerate Stop with nothing playing.
type Player interface {
	// Play starts the clip and returns a channel closed when playback
	// finishes naturally. A stopped or superseded clip never closes its
	// channel.
	Play(pcm []byte) (<-chan struct{}, error)
	Pause() error
	Resume() error
	Stop()
	Playing() bool
	Close() error
}

// Config describes the PCM format the player accepts.
type Config struct {
	SampleRate int // 44100 or 48000, or the synthesizer's native rate
	Channels   int // 1 or 2
}

// DefaultConfig matches espeak-ng's native output.
func DefaultConfig() Config {
	return Config{SampleRate: 22050, Channels: 1}
}

// OtoPlayer is the production Player backed by an oto context. The context
// is created once; oto cannot tear one down, so a process gets exactly one
// sample rate for its lifetime.
type OtoPlayer struct {
	context *oto.Context
	cfg     Config

	mu     sync.Mutex
	player *oto.Player
	// clip stays referenced for the whole playback. Letting the GC collect
	// the backing array mid-play produces static.
	clip   []byte
	done   chan struct{}
	paused bool
	closed bool
}

// NewOtoPlayer opens the audio device. Blocks until the device is ready.
func NewOtoPlayer(cfg Config) (*OtoPlayer, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("channels must be 1 or 2, got %d", cfg.Channels)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &OtoPlayer{context: ctx, cfg: cfg}, nil
}

// Play implements Player. Any clip already playing is stopped first.
func (p *OtoPlayer) Play(pcm []byte) (<-chan struct{}, error) {
	if len(pcm) == 0 {
		return nil, errors.New("empty audio clip")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, errors.New("audio player closed")
	}
	p.stopLocked()

	clip := make([]byte, len(pcm))
	copy(clip, pcm)

	player := p.context.NewPlayer(bytes.NewReader(clip))
	done := make(chan struct{})

	p.player = player
	p.clip = clip
	p.done = done
	p.paused = false

	player.Play()
	go p.watch(player, done, p.clipDuration(len(clip)))
	return done, nil
}

// watch polls the oto player until the clip drains, then closes done. Oto
// has no completion callback.
func (p *OtoPlayer) watch(player *oto.Player, done chan struct{}, duration time.Duration) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.Now().Add(duration + 2*time.Second)
	for range ticker.C {
		p.mu.Lock()
		if p.player != player {
			// Superseded or stopped; this clip's channel never closes.
			p.mu.Unlock()
			return
		}
		if p.paused {
			deadline = deadline.Add(20 * time.Millisecond)
			p.mu.Unlock()
			continue
		}
		if !player.IsPlaying() || time.Now().After(deadline) {
			p.player = nil
			p.clip = nil
			p.done = nil
			player.Close()
			p.mu.Unlock()
			close(done)
			return
		}
		p.mu.Unlock()
	}
}

func (p *OtoPlayer) clipDuration(n int) time.Duration {
	samples := n / (p.cfg.Channels * 2)
	return time.Duration(samples) * time.Second / time.Duration(p.cfg.SampleRate)
}

// Pause implements Player.
func (p *OtoPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil || p.paused {
		return errors.New("nothing playing")
	}
	p.player.Pause()
	p.paused = true
	return nil
}

// Resume implements Player.
func (p *OtoPlayer) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil || !p.paused {
		return errors.New("nothing paused")
	}
	p.player.Play()
	p.paused = false
	return nil
}

// Stop implements Player. Idempotent.
func (p *OtoPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *OtoPlayer) stopLocked() {
	if p.player == nil {
		return
	}
	p.player.Pause()
	p.player.Close()
	p.player = nil
	p.clip = nil
	p.done = nil
	p.paused = false
}

// Playing implements Player.
func (p *OtoPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && !p.paused
}

// Close implements Player. The oto context itself has no Close in v3; it is
// dropped and collected with the process.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}
