// Package speech implements the continuous dictation capture engine: a
// resilient, restartable session over an inherently flaky recognition
// capability, hiding device restarts, background suspension and
// permission loss from the caller.
package speech

// ErrorKind classifies recognition errors the way the underlying
// capability reports them.
type ErrorKind string

// Recognition error kinds.
const (
	// ErrKindNoSpeech and ErrKindAborted are benign and never counted
	// as failures.
	ErrKindNoSpeech ErrorKind = "no-speech"
	ErrKindAborted  ErrorKind = "aborted"

	// ErrKindNotAllowed and ErrKindServiceNotAllowed are fatal: the
	// session shuts down and does not auto-restart.
	ErrKindNotAllowed        ErrorKind = "not-allowed"
	ErrKindServiceNotAllowed ErrorKind = "service-not-allowed"

	// ErrKindNetwork and ErrKindAudioCapture count toward the
	// consecutive-failure threshold.
	ErrKindNetwork      ErrorKind = "network"
	ErrKindAudioCapture ErrorKind = "audio-capture"
)

// Fatal reports whether the kind shuts the session down immediately.
func (k ErrorKind) Fatal() bool {
	return k == ErrKindNotAllowed || k == ErrKindServiceNotAllowed
}

// Ignorable reports whether the kind is not a failure at all.
func (k ErrorKind) Ignorable() bool {
	return k == ErrKindNoSpeech || k == ErrKindAborted
}

// Segment is one recognized portion of an utterance. A final segment is
// confirmed and will never change; a non-final segment is the current
// full guess for the in-progress utterance.
type Segment struct {
	Transcript string
	Final      bool
}

// EventSink receives recognizer events. Implementations of Recognizer
// must deliver events from outside the calls into the recognizer, never
// synchronously from within Start/Stop/Abort.
type EventSink interface {
	// Results delivers the newly reported segments of a result event.
	Results(segments []Segment)
	// RecognitionError reports a recognition failure.
	RecognitionError(kind ErrorKind)
	// End signals that the capture session closed, for any reason.
	End()
}

// Recognizer is one owned capture session of the underlying capability.
// All methods are best-effort; the engine treats returned errors as soft
// failures and never propagates them to its caller.
type Recognizer interface {
	Start() error
	Stop() error
	Abort() error
}

// RecognizerFactory constructs a fresh recognizer wired to sink. The
// engine calls it once at session creation and again whenever it
// suspects the device died and rebuilds the session wholesale. A nil
// factory or a construction error means the capability is unsupported.
type RecognizerFactory func(sink EventSink) (Recognizer, error)

// WakeLock keeps the device awake while dictation is active. Acquire
// failures are non-fatal.
type WakeLock interface {
	Acquire() error
	Release() error
}

// NopWakeLock is a WakeLock that does nothing.
type NopWakeLock struct{}

// Acquire implements WakeLock.
func (NopWakeLock) Acquire() error { return nil }

// Release implements WakeLock.
func (NopWakeLock) Release() error { return nil }
