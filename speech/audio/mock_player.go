package audio

import (
	"errors"
	"sync"
	"time"
)

// MockPlayer is an in-memory Player for tests. Clips "play" for a fixed
// duration on a timer.
type MockPlayer struct {
	mu       sync.Mutex
	duration time.Duration
	playing  bool
	paused   bool
	closed   bool
	done     chan struct{}
	timer    *time.Timer

	plays int
	stops int
	lastN int
}

// NewMockPlayer returns a mock that completes each clip after d.
func NewMockPlayer(d time.Duration) *MockPlayer {
	return &MockPlayer{duration: d}
}

// Plays returns how many clips were started.
func (m *MockPlayer) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// Stops returns how many times Stop was called.
func (m *MockPlayer) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// LastClipLen returns the byte length of the most recent clip.
func (m *MockPlayer) LastClipLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastN
}

// Play implements Player.
func (m *MockPlayer) Play(pcm []byte) (<-chan struct{}, error) {
	if len(pcm) == 0 {
		return nil, errors.New("empty audio clip")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("audio player closed")
	}
	m.stopLocked()

	m.plays++
	m.lastN = len(pcm)
	m.playing = true
	m.paused = false

	done := make(chan struct{})
	m.done = done
	m.timer = time.AfterFunc(m.duration, func() {
		m.mu.Lock()
		if m.done == done {
			m.playing = false
			m.done = nil
			m.mu.Unlock()
			close(done)
			return
		}
		m.mu.Unlock()
	})
	return done, nil
}

// Pause implements Player.
func (m *MockPlayer) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing || m.paused {
		return errors.New("nothing playing")
	}
	m.paused = true
	if m.timer != nil {
		m.timer.Stop()
	}
	return nil
}

// Resume implements Player.
func (m *MockPlayer) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.paused {
		return errors.New("nothing paused")
	}
	m.paused = false
	done := m.done
	m.timer = time.AfterFunc(m.duration, func() {
		m.mu.Lock()
		if m.done == done {
			m.playing = false
			m.done = nil
			m.mu.Unlock()
			close(done)
			return
		}
		m.mu.Unlock()
	})
	return nil
}

// Stop implements Player.
func (m *MockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.stopLocked()
}

func (m *MockPlayer) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.playing = false
	m.paused = false
	m.done = nil
}

// Playing implements Player.
func (m *MockPlayer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing && !m.paused
}

// Close implements Player.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.closed = true
	return nil
}
