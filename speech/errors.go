package speech

import "errors"

// Error taxonomy for playback. ErrNotSupported is fatal and raised only at
// construction; everything else is reported per request.
var (
	// ErrNotSupported means no synthesis engine is available. Raised by
	// NewController; a controller is never handed out in this condition.
	ErrNotSupported = errors.New("speech synthesis is not supported")

	// ErrNoVoicesAvailable means the catalog stayed empty past its bounded
	// wait. Degraded, not fatal: requests still go out with the engine
	// default voice.
	ErrNoVoicesAvailable = errors.New("no synthesis voices available")

	// ErrSynthesisFailed means a submitted request did not complete: the
	// engine reported an error, never confirmed a start, or went dead
	// after submission. Retryable from the caller side.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrInterrupted means the request was cancelled because a newer one
	// superseded it, or because of an explicit Stop. Not a failure:
	// callers should discard it silently.
	ErrInterrupted = errors.New("speech interrupted")

	// ErrControllerClosed is returned for calls made after Close.
	ErrControllerClosed = errors.New("speech controller is closed")
)

// IsBenign reports whether err is an expected non-failure outcome that
// should not be surfaced to the user or retried.
func IsBenign(err error) bool {
	return err == nil || errors.Is(err, ErrInterrupted)
}
