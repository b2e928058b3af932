package speech

import (
	"bufio"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

// NewCommandFactory returns a RecognizerFactory that runs an external
// transcription command (for example a streaming whisper CLI) and treats
// every non-empty stdout line as one finalized segment. The command must
// exist on PATH; otherwise the factory fails and the capability is
// reported unsupported.
func NewCommandFactory(name string, args ...string) RecognizerFactory {
	return func(sink EventSink) (Recognizer, error) {
		if name == "" {
			return nil, errors.New("no transcription command configured")
		}
		if _, err := exec.LookPath(name); err != nil {
			return nil, err
		}
		return &commandRecognizer{sink: sink, name: name, args: args}, nil
	}
}

// commandRecognizer adapts a line-oriented transcription process to the
// Recognizer interface. One process per open session.
type commandRecognizer struct {
	sink EventSink
	name string
	args []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	aborted bool
	stopped bool
}

func (r *commandRecognizer) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return errors.New("recognizer already running")
	}

	cmd := exec.Command(r.name, r.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	r.cmd = cmd
	r.aborted = false
	r.stopped = false

	go r.pump(cmd, stdout)
	return nil
}

func (r *commandRecognizer) pump(cmd *exec.Cmd, stdout interface{ Read([]byte) (int, error) }) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.sink.Results([]Segment{{Transcript: line, Final: true}})
	}
	waitErr := cmd.Wait()

	r.mu.Lock()
	aborted := r.aborted
	stopped := r.stopped
	r.cmd = nil
	r.mu.Unlock()

	if waitErr != nil && !aborted && !stopped {
		r.sink.RecognitionError(ErrKindAudioCapture)
	}
	r.sink.End()
}

func (r *commandRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	r.stopped = true
	return r.cmd.Process.Kill()
}

func (r *commandRecognizer) Abort() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	r.aborted = true
	return r.cmd.Process.Kill()
}

// NewCommandWakeLock returns a WakeLock that holds a long-running
// inhibitor process (for example systemd-inhibit) while acquired.
func NewCommandWakeLock(name string, args ...string) WakeLock {
	return &commandWakeLock{name: name, args: args}
}

type commandWakeLock struct {
	name string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

func (w *commandWakeLock) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd != nil {
		return nil
	}
	cmd := exec.Command(w.name, w.args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	w.cmd = cmd
	go func() { _ = cmd.Wait() }()
	return nil
}

func (w *commandWakeLock) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cmd == nil || w.cmd.Process == nil {
		w.cmd = nil
		return nil
	}
	err := w.cmd.Process.Kill()
	w.cmd = nil
	return err
}
