package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/vokabel/vokabel/speech"
)

type (
	// spokenMsg reports the final outcome of one pronunciation, after
	// retries.
	spokenMsg struct {
		term string
		err  error
	}

	// speechStateMsg mirrors controller state changes into the UI.
	speechStateMsg speech.State

	// voicesReadyMsg reports whether any voice showed up before the
	// startup deadline.
	voicesReadyMsg struct{ err error }

	// throttledMsg tells the student the listen key is being mashed.
	throttledMsg struct{}

	clearStatusMsg struct{}
)

// speaker owns everything around pronouncing a word: the controller, the
// retry policy, and a rate limit on the listen key so a bored eight year
// old cannot queue up thirty utterances.
type speaker struct {
	ctrl    *speech.Controller
	retry   speech.RetryPolicy
	limiter *rate.Limiter
}

func newSpeaker(ctrl *speech.Controller) *speaker {
	return &speaker{
		ctrl:    ctrl,
		retry:   speech.DefaultRetryPolicy(),
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// speak pronounces term. Returns a throttled notice when the listen key is
// pressed too fast; otherwise the command blocks in the background until
// playback settles and reports the outcome.
func (s *speaker) speak(term string) tea.Cmd {
	if !s.limiter.Allow() {
		return func() tea.Msg { return throttledMsg{} }
	}
	return func() tea.Msg {
		err := s.retry.Speak(s.ctrl, term)
		if speech.IsBenign(err) {
			err = nil
		}
		return spokenMsg{term: term, err: err}
	}
}

// waitVoices blocks until the catalog has voices or gives up.
func (s *speaker) waitVoices(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		return voicesReadyMsg{err: s.ctrl.Catalog().WaitReady(timeout)}
	}
}

// togglePause flips between paused and speaking. Harmless when idle.
func (s *speaker) togglePause() {
	if s.ctrl.IsPaused() {
		s.ctrl.Resume()
		return
	}
	s.ctrl.Pause()
}

func (s *speaker) stop() {
	s.ctrl.Stop()
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
