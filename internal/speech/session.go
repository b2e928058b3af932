package speech

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Defaults for session timing and failure tolerance.
const (
	// DefaultRestartDelay is how long to wait before reopening a session
	// after it ends on its own. Restarting synchronously inside the end
	// callback makes many implementations throw.
	DefaultRestartDelay = 400 * time.Millisecond

	// DefaultResumeDelay lets a freshly rebuilt recognizer settle before
	// it is started after the page becomes visible again.
	DefaultResumeDelay = 300 * time.Millisecond

	// DefaultMaxConsecutiveFailures is how many non-ignorable errors in a
	// row are tolerated before the session shuts down for good.
	DefaultMaxConsecutiveFailures = 3
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateListening
	stateRecreating
)

// Config configures a dictation Session.
type Config struct {
	Factory  RecognizerFactory
	WakeLock WakeLock
	Logger   *slog.Logger

	RestartDelay           time.Duration
	ResumeDelay            time.Duration
	MaxConsecutiveFailures int
}

// Session is the dictation capture engine. It presents a single logical
// start/stop control surface and owns all transcript state for one
// dictation session.
//
// Recognizer events arrive on their own goroutines; a single mutex
// serializes them with the public operations, so the engine behaves as
// the event-driven single-threaded machine it models.
type Session struct {
	mu sync.Mutex

	cfg        Config
	recognizer Recognizer
	supported  bool

	state               sessionState
	finalText           string
	interimText         string
	accumulated         string
	consecutiveFailures int
	shouldKeepListening bool
	suspended           bool
	wakeLockHeld        bool

	restartTimer *time.Timer
	resumeTimer  *time.Timer
	closed       bool
}

// NewSession creates a dictation session. If the factory is nil or fails,
// the session is still usable: IsSupported reports false and Start/Stop
// are no-ops.
func NewSession(cfg Config) *Session {
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = DefaultRestartDelay
	}
	if cfg.ResumeDelay <= 0 {
		cfg.ResumeDelay = DefaultResumeDelay
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if cfg.WakeLock == nil {
		cfg.WakeLock = NopWakeLock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Session{cfg: cfg}

	if cfg.Factory == nil {
		return s
	}
	rec, err := cfg.Factory(s)
	if err != nil {
		cfg.Logger.Warn("speech recognition unavailable", "error", err)
		return s
	}
	s.recognizer = rec
	s.supported = true
	return s
}

// IsSupported reports whether a capture capability could be constructed.
func (s *Session) IsSupported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supported
}

// Text returns the accumulated final transcript.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalText
}

// InterimText returns the current unconfirmed guess for the in-progress
// utterance.
func (s *Session) InterimText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interimText
}

// IsListening reports whether the session is logically listening. It
// stays true across transparent restarts and device recreation.
func (s *Session) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != stateIdle
}

// Start opens a capture session. It is a no-op while already listening
// or when the capability is unsupported.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.supported || s.closed || s.state != stateIdle {
		return
	}

	// Seed accumulation from the public text so hand edits made while
	// idle are appended to, not overwritten.
	s.accumulated = s.finalText
	s.consecutiveFailures = 0
	s.shouldKeepListening = true

	s.acquireWakeLock()

	if err := s.recognizer.Start(); err != nil {
		s.cfg.Logger.Warn("failed to start recognition", "error", err)
		s.shouldKeepListening = false
		s.state = stateIdle
		s.releaseWakeLock()
		return
	}
	s.state = stateListening
}

// Stop closes the capture session. No further session will open until
// Start is called again, even if a restart was already scheduled.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimersLocked()
	s.shouldKeepListening = false
	s.suspended = false

	if s.recognizer != nil {
		if err := s.recognizer.Stop(); err != nil {
			s.cfg.Logger.Debug("recognizer stop failed", "error", err)
		}
	}

	s.interimText = ""
	s.state = stateIdle
	s.releaseWakeLock()
}

// Reset clears the final and interim buffers. Listening state is
// unaffected.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accumulated = ""
	s.finalText = ""
	s.interimText = ""
}

// SetText overwrites the final transcript, keeping the internal
// accumulation mirror in sync so the next recognized segment appends to
// the edit instead of clobbering it.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finalText = text
	s.accumulated = text
}

// Suspend reacts to the page becoming hidden: the current session is
// aborted and any pending restart canceled so the microphone does not
// stay open in the background. The listening intent is preserved.
func (s *Session) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shouldKeepListening || s.recognizer == nil {
		return
	}
	s.suspended = true
	if err := s.recognizer.Abort(); err != nil {
		s.cfg.Logger.Debug("recognizer abort failed", "error", err)
	}
	if s.restartTimer != nil {
		s.restartTimer.Stop()
		s.restartTimer = nil
	}
}

// Resume reacts to the page becoming visible again. Implementations of
// the capability can silently die while backgrounded and cannot simply
// be restarted, so the recognizer is rebuilt wholesale and started after
// a short settle delay.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suspended = false
	if !s.shouldKeepListening || s.closed {
		return
	}

	s.state = stateRecreating

	if s.recognizer != nil {
		if err := s.recognizer.Abort(); err != nil {
			s.cfg.Logger.Debug("recognizer abort failed", "error", err)
		}
	}

	rec, err := s.cfg.Factory(s)
	if err != nil {
		s.cfg.Logger.Warn("failed to rebuild recognizer", "error", err)
		s.shutdownLocked()
		return
	}
	s.recognizer = rec
	s.consecutiveFailures = 0

	s.resumeTimer = time.AfterFunc(s.cfg.ResumeDelay, s.finishResume)
}

func (s *Session) finishResume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resumeTimer = nil
	if s.state != stateRecreating {
		return
	}
	if !s.shouldKeepListening {
		s.state = stateIdle
		s.releaseWakeLock()
		return
	}

	if err := s.recognizer.Start(); err != nil {
		s.cfg.Logger.Warn("failed to restart recognition after resume", "error", err)
		s.shutdownLocked()
		return
	}
	s.state = stateListening
}

// Close tears the session down for good. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancelTimersLocked()
	s.shouldKeepListening = false
	if s.recognizer != nil {
		if err := s.recognizer.Abort(); err != nil {
			s.cfg.Logger.Debug("recognizer abort failed", "error", err)
		}
	}
	s.state = stateIdle
	s.releaseWakeLock()
}

// Results implements EventSink.
func (s *Session) Results(segments []Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.consecutiveFailures = 0

	var finalPart, interimPart strings.Builder
	for _, seg := range segments {
		if seg.Final {
			finalPart.WriteString(seg.Transcript)
		} else {
			interimPart.WriteString(seg.Transcript)
		}
	}

	if finalPart.Len() > 0 {
		prev := s.accumulated
		separator := ""
		if prev != "" && !strings.HasSuffix(prev, " ") {
			separator = " "
		}
		s.accumulated = prev + separator + finalPart.String()
		s.finalText = s.accumulated
		s.interimText = ""
		return
	}

	// Interim guesses are always full replacements, never deltas.
	s.interimText = interimPart.String()
}

// RecognitionError implements EventSink.
func (s *Session) RecognitionError(kind ErrorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind.Ignorable() {
		return
	}

	if kind.Fatal() {
		s.cfg.Logger.Warn("recognition permission lost", "kind", kind)
		s.shutdownLocked()
		return
	}

	s.consecutiveFailures++
	if s.consecutiveFailures >= s.cfg.MaxConsecutiveFailures {
		s.cfg.Logger.Warn("recognition failure threshold reached", "kind", kind)
		s.shutdownLocked()
	}
}

// End implements EventSink. A session that should keep listening is
// reopened after a short delay rather than synchronously; a recreation
// in progress suppresses the scheduled restart so the two never race.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interimText = ""

	if !s.shouldKeepListening {
		s.state = stateIdle
		s.releaseWakeLock()
		return
	}

	// A recreation in progress owns the next start; a suspended session
	// must not reopen the microphone in the background.
	if s.state == stateRecreating || s.suspended {
		return
	}

	s.restartTimer = time.AfterFunc(s.cfg.RestartDelay, s.scheduledRestart)
}

func (s *Session) scheduledRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restartTimer = nil

	if !s.shouldKeepListening {
		s.state = stateIdle
		s.releaseWakeLock()
		return
	}
	if s.state == stateRecreating {
		return
	}

	if err := s.recognizer.Start(); err != nil {
		s.consecutiveFailures++
		if s.consecutiveFailures >= s.cfg.MaxConsecutiveFailures {
			s.cfg.Logger.Warn("recognition restart failed repeatedly", "error", err)
			s.shutdownLocked()
		}
		return
	}
	s.state = stateListening
}

// shutdownLocked is the fatal shutdown sequence: clear intent, go idle,
// drop interim text and the wake lock. Caller holds the mutex.
func (s *Session) shutdownLocked() {
	s.shouldKeepListening = false
	s.suspended = false
	s.cancelTimersLocked()
	s.interimText = ""
	s.state = stateIdle
	s.releaseWakeLock()
}

func (s *Session) cancelTimersLocked() {
	if s.restartTimer != nil {
		s.restartTimer.Stop()
		s.restartTimer = nil
	}
	if s.resumeTimer != nil {
		s.resumeTimer.Stop()
		s.resumeTimer = nil
	}
}

func (s *Session) acquireWakeLock() {
	if s.wakeLockHeld {
		return
	}
	if err := s.cfg.WakeLock.Acquire(); err != nil {
		s.cfg.Logger.Debug("wake lock request failed", "error", err)
		return
	}
	s.wakeLockHeld = true
}

func (s *Session) releaseWakeLock() {
	if !s.wakeLockHeld {
		return
	}
	if err := s.cfg.WakeLock.Release(); err != nil {
		s.cfg.Logger.Debug("wake lock release failed", "error", err)
	}
	s.wakeLockHeld = false
}
