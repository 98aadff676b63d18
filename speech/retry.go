package speech

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Speaker is the subset of Controller that RetryPolicy drives. Declared
// here so callers can wrap the controller without importing its concrete
// type into every call site.
type Speaker interface {
	Speak(text string) <-chan error
}

// RetryPolicy re-issues failed playback requests. Retrying lives outside
// the controller on purpose: the controller settles each request exactly
// once and knows nothing about attempts, so an interrupt during a retry
// sequence cleanly abandons the whole sequence.
type RetryPolicy struct {
	// Attempts is the number of retries after the initial request.
	Attempts int
	// Delay is the pause before each retry.
	Delay time.Duration
}

// DefaultRetryPolicy matches the cadence young users tolerate: two quick
// retries, then give up and surface the failure.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 2, Delay: 200 * time.Millisecond}
}

// Speak runs text through s, retrying on ErrSynthesisFailed. It blocks
// until an attempt succeeds, an attempt is interrupted, or the attempts are
// exhausted, and returns the final outcome. Interruption aborts the
// sequence immediately: a newer request has taken over and retrying the old
// text would fight it.
func (p RetryPolicy) Speak(s Speaker, text string) error {
	var err error
	for attempt := 0; attempt <= p.Attempts; attempt++ {
		if attempt > 0 {
			log.Debug("retrying playback", "attempt", attempt, "max", p.Attempts)
			time.Sleep(p.Delay)
		}
		err = <-s.Speak(text)
		if err == nil || errors.Is(err, ErrInterrupted) || errors.Is(err, ErrControllerClosed) {
			return err
		}
	}
	return err
}
