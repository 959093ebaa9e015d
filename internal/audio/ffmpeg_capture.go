package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gelogrammer/voice-gateway/internal/ports"
)

const (
	// startSettle is how long ffmpeg must stay alive before the stream is
	// handed to the caller; an immediate exit means the device is unusable.
	startSettle = 250 * time.Millisecond

	// stopGrace is how long a stopped process gets to exit on SIGINT
	// before it is killed.
	stopGrace = 1200 * time.Millisecond

	stderrTailLimit = 2048
)

// FFMPEGCapture streams microphone PCM audio using ffmpeg.
type FFMPEGCapture struct {
	command string
}

func NewFFMPEGCapture(command string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	return &FFMPEGCapture{command: command}
}

// Probe opens the capture device only to verify microphone access and tears
// the stream down immediately afterwards.
func (c *FFMPEGCapture) Probe(ctx context.Context) error {
	session, err := c.Start(ctx, ports.AudioConfig{})
	if err != nil {
		return err
	}
	return session.Stop()
}

func (c *FFMPEGCapture) Start(ctx context.Context, cfg ports.AudioConfig) (ports.AudioSession, error) {
	applyCaptureDefaults(&cfg)

	diag := newStderrTail(stderrTailLimit)
	cmd := exec.CommandContext(ctx, c.command, captureArgs(cfg)...)
	cmd.Stderr = diag

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waited := make(chan error, 1)
	go func() {
		waited <- cmd.Wait()
		close(waited)
	}()

	select {
	case err := <-waited:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, diag.String())
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(startSettle):
	}

	return &captureStream{
		stdout:  stdout,
		diag:    diag,
		process: cmd.Process,
		waited:  waited,
	}, nil
}

func applyCaptureDefaults(cfg *ports.AudioConfig) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
}

func captureArgs(cfg ports.AudioConfig) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}
}

// captureStream is one live ffmpeg capture. Stop is idempotent.
type captureStream struct {
	stdout io.ReadCloser
	diag   *stderrTail

	process *os.Process
	waited  <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (s *captureStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *captureStream) Close() error {
	return s.Stop()
}

func (s *captureStream) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.shutdown()
	})
	return s.stopErr
}

// shutdown interrupts ffmpeg and escalates to a kill when it does not exit
// within the grace period. A failure carries the stderr tail.
func (s *captureStream) shutdown() error {
	if s.process != nil {
		_ = s.process.Signal(os.Interrupt)
	}

	var err error
	select {
	case waitErr := <-s.waited:
		err = ignoreExitStatus(waitErr)
	case <-time.After(stopGrace):
		if s.process != nil {
			_ = s.process.Kill()
		}
		err = ignoreExitStatus(<-s.waited)
	}

	if closeErr := s.stdout.Close(); err == nil && closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		err = closeErr
	}

	if err != nil {
		if tail := s.diag.String(); tail != "" {
			return fmt.Errorf("%w: %s", err, tail)
		}
	}
	return err
}

// ffmpeg exits non-zero when interrupted; that is a normal stop, not a
// failure.
func ignoreExitStatus(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// stderrTail retains the last stretch of ffmpeg's stderr for error
// messages, bounding memory on long captures.
type stderrTail struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func newStderrTail(limit int) *stderrTail {
	return &stderrTail{limit: limit}
}

func (t *stderrTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}
