package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/audio"
	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

var (
	ErrSessionActive   = errors.New("a recording session is already active")
	ErrNoActiveSession = errors.New("no active recording session")
	ErrInvalidPhase    = errors.New("operation not valid in the current phase")
)

// Identity resolves the signed-in user for submissions. The controller never
// reads identity from ambient state; it is injected here.
type Identity interface {
	CurrentUser(ctx context.Context) (domain.Profile, error)
}

// ProgressRecorder receives completion marks after a successful submit.
type ProgressRecorder interface {
	MarkCompleted(ctx context.Context, scriptID string) error
}

// Config carries the session timing knobs. Zero values resolve to the
// production defaults; tests shrink the intervals to keep runs fast.
type Config struct {
	Audio             ports.AudioConfig
	CountdownStart    int
	CountdownInterval time.Duration
	RecordTick        time.Duration
	RecordLimit       time.Duration
	MinBlobBytes      int
	MaxUploadBytes    int64
	ChunkSize         int
}

func (c *Config) applyDefaults() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Channels <= 0 {
		c.Audio.Channels = 1
	}
	if c.CountdownStart <= 0 {
		c.CountdownStart = 3
	}
	if c.CountdownInterval <= 0 {
		c.CountdownInterval = time.Second
	}
	if c.RecordTick <= 0 {
		c.RecordTick = 100 * time.Millisecond
	}
	if c.RecordLimit <= 0 {
		c.RecordLimit = 7 * time.Second
	}
	if c.MinBlobBytes <= 0 {
		c.MinBlobBytes = 1024
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.ChunkSize < 256 {
		c.ChunkSize = 4096
	}
}

// SessionController drives the recording session lifecycle:
// idle -> countdown -> recording -> reviewing -> submitting -> idle,
// with escape edges back to idle at every stage. It owns at most one
// active session; starting a second one is rejected.
type SessionController struct {
	capture   ports.AudioCapture
	gate      *PermissionGate
	submitter *Submitter
	progress  ProgressRecorder
	identity  Identity
	events    ports.EventSink
	cfg       Config
	log       *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *activeSession
}

func NewSessionController(
	capture ports.AudioCapture,
	gate *PermissionGate,
	submitter *Submitter,
	progress ProgressRecorder,
	identity Identity,
	events ports.EventSink,
	cfg Config,
	log *zap.Logger,
) *SessionController {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionController{
		capture:   capture,
		gate:      gate,
		submitter: submitter,
		progress:  progress,
		identity:  identity,
		events:    events,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// Start begins a new session for the given script with the countdown phase.
// It fails fast when a session is already active or when microphone access
// is denied.
func (c *SessionController) Start(ctx context.Context, script domain.Script) error {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.mu.Unlock()

	if err := c.gate.Ensure(ctx); err != nil {
		c.events.SessionError(domain.ErrorCodePermission, err.Error())
		return err
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	active := &activeSession{
		script:             script,
		cancel:             cancel,
		phase:              domain.PhaseCountdown,
		countdownRemaining: c.cfg.CountdownStart,
		buffer:             NewCaptureBuffer(),
		pumpDone:           make(chan struct{}),
	}

	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		cancel()
		return ErrSessionActive
	}
	c.current = active
	c.mu.Unlock()

	c.log.Info("session started",
		zap.String("script_id", script.ID),
		zap.String("category", string(script.Category)))
	c.events.PhaseChanged(domain.PhaseCountdown, domain.PhaseReasonCountdownStarted)
	c.events.CountdownTick(active.countdownRemaining)
	go c.runCountdown(sessionCtx, active)
	return nil
}

func (c *SessionController) runCountdown(ctx context.Context, active *activeSession) {
	ticker := time.NewTicker(c.cfg.CountdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active.mu.Lock()
			if active.phase != domain.PhaseCountdown {
				active.mu.Unlock()
				return
			}
			active.countdownRemaining--
			remaining := active.countdownRemaining
			active.mu.Unlock()

			c.events.CountdownTick(remaining)
			if remaining <= 0 {
				c.beginRecording(ctx, active)
				return
			}
		}
	}
}

func (c *SessionController) beginRecording(ctx context.Context, active *activeSession) {
	stream, err := c.capture.Start(ctx, c.cfg.Audio)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeCapture, fmt.Sprintf("failed to open capture stream: %v", err))
		c.finishSession(active, domain.PhaseReasonCaptureFailed)
		return
	}

	active.mu.Lock()
	if active.phase != domain.PhaseCountdown {
		// Reset raced with the countdown expiring.
		active.mu.Unlock()
		_ = stream.Stop()
		return
	}
	active.audio = stream
	active.pumpStarted = true
	active.phase = domain.PhaseRecording
	active.startedAt = c.now()
	active.mu.Unlock()

	c.events.PhaseChanged(domain.PhaseRecording, domain.PhaseReasonRecordingStarted)
	go c.pumpChunks(active)
	go c.watchElapsed(ctx, active)
}

// pumpChunks drains the capture stream into the session buffer until the
// stream ends. The buffer preserves chunk arrival order.
func (c *SessionController) pumpChunks(active *activeSession) {
	defer close(active.pumpDone)

	buf := make([]byte, c.cfg.ChunkSize)
	for {
		n, err := active.audio.Read(buf)
		if n > 0 {
			active.buffer.Append(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				c.events.SessionError(domain.ErrorCodeCapture, fmt.Sprintf("audio capture read error: %v", err))
			}
			return
		}
	}
}

// watchElapsed emits elapsed-time ticks from the wall clock and enforces the
// recording time limit. Elapsed time never depends on tick counting, so a
// delayed tick still stops the capture at the limit.
func (c *SessionController) watchElapsed(ctx context.Context, active *activeSession) {
	ticker := time.NewTicker(c.cfg.RecordTick)
	defer ticker.Stop()

	limit := c.cfg.RecordLimit.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active.mu.Lock()
			if active.phase != domain.PhaseRecording {
				active.mu.Unlock()
				return
			}
			elapsed := c.now().Sub(active.startedAt).Seconds()
			active.mu.Unlock()

			remaining := limit - elapsed
			if remaining < 0 {
				remaining = 0
			}
			c.events.RecordingTick(elapsed, remaining)
			if elapsed >= limit {
				c.stopCapture(active, domain.PhaseReasonTimeLimitReached)
				return
			}
		}
	}
}

// StopRecording ends the capture early on user request.
func (c *SessionController) StopRecording() error {
	active, err := c.getCurrent()
	if err != nil {
		return err
	}
	if active.getPhase() != domain.PhaseRecording {
		return ErrInvalidPhase
	}
	c.stopCapture(active, domain.PhaseReasonRecordingStopped)
	return nil
}

// stopCapture ends the capture exactly once, finalizes the buffer and moves
// the session to reviewing, or back to idle when the capture is unusable.
// It is called from both the user stop path and the time-limit path.
func (c *SessionController) stopCapture(active *activeSession, reason domain.PhaseReason) {
	active.stopOnce.Do(func() {
		active.mu.Lock()
		if active.phase != domain.PhaseRecording {
			active.mu.Unlock()
			return
		}
		elapsed := c.now().Sub(active.startedAt).Seconds()
		if limit := c.cfg.RecordLimit.Seconds(); elapsed > limit {
			elapsed = limit
		}
		active.duration = elapsed
		active.mu.Unlock()

		active.releaseStream()

		blob, err := active.buffer.Finalize()
		if err != nil {
			c.events.SessionError(domain.ErrorCodeCapture, fmt.Sprintf("failed to finalize capture: %v", err))
			c.finishSession(active, domain.PhaseReasonCaptureFailed)
			return
		}
		if len(blob) < c.cfg.MinBlobBytes {
			c.events.SessionError(domain.ErrorCodeCapture,
				fmt.Sprintf("capture too short: %d bytes (minimum %d)", len(blob), c.cfg.MinBlobBytes))
			c.finishSession(active, domain.PhaseReasonCaptureTooShort)
			return
		}

		active.mu.Lock()
		active.blob = blob
		active.phase = domain.PhaseReviewing
		active.mu.Unlock()
		c.events.PhaseChanged(domain.PhaseReviewing, reason)
	})
}

// ReviewClip returns the captured audio as a playable WAV for preview.
func (c *SessionController) ReviewClip() ([]byte, error) {
	active, err := c.getCurrent()
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()
	if active.phase != domain.PhaseReviewing {
		return nil, ErrInvalidPhase
	}
	return audio.EncodeWAV(active.blob, c.cfg.Audio.SampleRate, c.cfg.Audio.Channels, 16), nil
}

// Submit uploads the reviewed capture. On failure the session returns to
// reviewing with the blob intact so the user can retry; on success the
// script is marked completed and the session ends.
func (c *SessionController) Submit(ctx context.Context) (domain.UploadedRecording, error) {
	active, err := c.getCurrent()
	if err != nil {
		return domain.UploadedRecording{}, err
	}

	active.mu.Lock()
	if active.phase != domain.PhaseReviewing {
		active.mu.Unlock()
		return domain.UploadedRecording{}, ErrInvalidPhase
	}
	active.phase = domain.PhaseSubmitting
	blob := active.blob
	duration := active.duration
	script := active.script
	active.mu.Unlock()

	c.events.PhaseChanged(domain.PhaseSubmitting, domain.PhaseReasonSubmitStarted)

	user, err := c.identity.CurrentUser(ctx)
	if err != nil {
		c.backToReviewing(active)
		c.events.SessionError(domain.ErrorCodeAuth, err.Error())
		return domain.UploadedRecording{}, fmt.Errorf("resolve current user: %w", err)
	}

	wav := audio.EncodeWAV(blob, c.cfg.Audio.SampleRate, c.cfg.Audio.Channels, 16)
	meta := domain.RecordingMetadata{
		UserID:     user.ID,
		ScriptID:   script.ID,
		Title:      fmt.Sprintf("%s - %s", script.Category, script.Title),
		ScriptText: script.Text,
		Category:   script.Category,
		Duration:   duration,
		MimeType:   "audio/wav",
	}

	rec, err := c.submitter.Submit(ctx, wav, meta)
	if err != nil {
		c.backToReviewing(active)
		c.events.SessionError(domain.ErrorCodeUpload, err.Error())
		return domain.UploadedRecording{}, err
	}

	if err := c.progress.MarkCompleted(ctx, script.ID); err != nil {
		// The recording is durable; a progress write failure must not undo it.
		c.log.Warn("progress update failed after successful upload",
			zap.String("script_id", script.ID), zap.Error(err))
		c.events.SessionError(domain.ErrorCodeProgressSync, err.Error())
	}

	c.finishSession(active, domain.PhaseReasonRecordingSaved)
	return rec, nil
}

// backToReviewing returns a failed submit to review. A session reset while
// the submit was in flight leaves the controller idle; the orphaned session
// must not be revived or emit a stale phase event.
func (c *SessionController) backToReviewing(active *activeSession) {
	c.mu.Lock()
	current := c.current == active
	c.mu.Unlock()
	if !current {
		return
	}
	active.setPhase(domain.PhaseReviewing)
	c.events.PhaseChanged(domain.PhaseReviewing, domain.PhaseReasonUploadFailed)
}

// Discard throws away the current session and its capture.
func (c *SessionController) Discard() error {
	active, err := c.getCurrent()
	if err != nil {
		return err
	}
	active.cancel()
	active.releaseStream()
	c.finishSession(active, domain.PhaseReasonRecordingDiscarded)
	return nil
}

// Reset forces the session back to idle from any phase, releasing the
// capture stream and all buffered audio. A no-op when idle.
func (c *SessionController) Reset() {
	active, err := c.getCurrent()
	if err != nil {
		return
	}
	active.cancel()
	active.releaseStream()
	c.finishSession(active, domain.PhaseReasonSessionReset)
}

// Status reports the current session phase for the UI, with wall-clock
// elapsed time while recording.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	active := c.current
	c.mu.Unlock()

	perm := c.gate.State()
	if active == nil {
		return domain.Status{Phase: domain.PhaseIdle, Permission: perm}
	}

	active.mu.Lock()
	defer active.mu.Unlock()
	st := domain.Status{
		Phase:      active.phase,
		Active:     true,
		ScriptID:   active.script.ID,
		Permission: perm,
	}
	switch active.phase {
	case domain.PhaseCountdown:
		st.CountdownRemaining = active.countdownRemaining
	case domain.PhaseRecording:
		st.ElapsedSeconds = c.now().Sub(active.startedAt).Seconds()
	case domain.PhaseReviewing, domain.PhaseSubmitting:
		st.ElapsedSeconds = active.duration
	}
	return st
}

func (c *SessionController) getCurrent() (*activeSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoActiveSession
	}
	return c.current, nil
}

// finishSession returns the controller to idle, clearing the active session
// if it is still the one being finished.
func (c *SessionController) finishSession(active *activeSession, reason domain.PhaseReason) {
	active.cancel()

	active.mu.Lock()
	active.phase = domain.PhaseIdle
	active.blob = nil
	active.mu.Unlock()

	c.mu.Lock()
	if c.current == active {
		c.current = nil
	}
	c.mu.Unlock()

	c.events.PhaseChanged(domain.PhaseIdle, reason)
}
