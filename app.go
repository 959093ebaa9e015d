package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/gelogrammer/voice-gateway/internal/bootstrap"
	"github.com/gelogrammer/voice-gateway/internal/catalog"
	"github.com/gelogrammer/voice-gateway/internal/config"
	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/usecase"
)

const (
	eventPhase     = "voicegw:phase"
	eventCountdown = "voicegw:countdown"
	eventTick      = "voicegw:tick"
	eventProgress  = "voicegw:progress"
	eventError     = "voicegw:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	services bootstrap.Services
	cfg      config.Config
	bootErr  error

	mu      sync.Mutex
	session domain.AuthSession
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(ctx, a, a)
	if err != nil {
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.services = services
	a.cfg = services.Config
	a.settlePermission(ctx)
	a.PhaseChanged(domain.PhaseIdle, domain.PhaseReasonStartup)
}

// settlePermission probes the capture device once so the first Status call
// reports a settled microphone tri-state instead of unknown.
func (a *App) settlePermission(ctx context.Context) {
	if a.services.Gate == nil {
		return
	}
	if state := a.services.Gate.Check(ctx); state == domain.PermissionDenied {
		a.SessionError(domain.ErrorCodePermission, "microphone access denied")
	}
}

func (a *App) shutdown(_ context.Context) {
	if a.services.Tracker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Progress.FlushDelay*3)
	defer cancel()
	_ = a.services.Tracker.Flush(ctx)
}

// Catalog returns all recording scripts grouped by their fixed order.
func (a *App) Catalog() []domain.Script {
	return catalog.All()
}

// Categories returns the fixed category list in display order.
func (a *App) Categories() []domain.Category {
	return domain.Categories()
}

// Status returns the current session status.
func (a *App) Status() domain.Status {
	if a.services.Controller == nil {
		if a.bootErr != nil {
			return domain.Status{Phase: domain.PhaseIdle, Permission: domain.PermissionUnknown, Message: a.bootErr.Error()}
		}
		return domain.Status{Phase: domain.PhaseIdle, Permission: domain.PermissionUnknown}
	}
	return a.services.Controller.Status()
}

// RequestMicrophoneAccess probes the capture device and reports the result.
func (a *App) RequestMicrophoneAccess() (domain.Permission, error) {
	if err := a.requireReady(); err != nil {
		return domain.PermissionUnknown, err
	}
	state, err := a.services.Gate.Request(a.ctx)
	if err != nil {
		a.SessionError(domain.ErrorCodePermission, err.Error())
	}
	return state, nil
}

// StartSession begins countdown and recording for the given script.
func (a *App) StartSession(scriptID string) (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.requireSignedIn(); err != nil {
		return domain.Status{}, err
	}
	script, ok := catalog.ByID(scriptID)
	if !ok {
		return domain.Status{}, fmt.Errorf("unknown script id %q", scriptID)
	}
	if err := a.services.Controller.Start(a.ctx, script); err != nil {
		return domain.Status{}, err
	}
	return a.services.Controller.Status(), nil
}

// StopRecording ends the capture early and moves the session to review.
func (a *App) StopRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.services.Controller.StopRecording()
}

// ReviewClip returns the captured audio as WAV bytes for preview playback.
func (a *App) ReviewClip() ([]byte, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	return a.services.Controller.ReviewClip()
}

// Submit uploads the reviewed recording and marks the script completed.
func (a *App) Submit() (domain.UploadedRecording, error) {
	if err := a.requireReady(); err != nil {
		return domain.UploadedRecording{}, err
	}
	return a.services.Controller.Submit(a.ctx)
}

// Discard throws away the current capture and returns to idle.
func (a *App) Discard() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.services.Controller.Discard(); err != nil {
		if errors.Is(err, usecase.ErrNoActiveSession) {
			return nil
		}
		return err
	}
	return nil
}

// Progress returns the current progress snapshot.
func (a *App) Progress() (domain.ProgressSnapshot, error) {
	if err := a.requireReady(); err != nil {
		return domain.ProgressSnapshot{}, err
	}
	return a.services.Tracker.Snapshot(), nil
}

// ProgressPercentage reports overall completion as a whole percent.
func (a *App) ProgressPercentage() int {
	if a.services.Tracker == nil {
		return 0
	}
	return a.services.Tracker.Percentage()
}

// SelectCategory switches the active script category. A session in flight
// belongs to the old category and is torn down.
func (a *App) SelectCategory(category string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.services.Controller.Reset()
	return a.services.Tracker.SelectCategory(a.ctx, domain.Category(category))
}

// ResetCategory clears one category's progress and deletes its recordings.
func (a *App) ResetCategory(category string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.requireSignedIn(); err != nil {
		return err
	}
	a.services.Controller.Reset()
	return a.services.Tracker.ResetCategory(a.ctx, domain.Category(category))
}

// ResetProgress clears all progress and deletes every stored recording.
func (a *App) ResetProgress() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.requireSignedIn(); err != nil {
		return err
	}
	a.services.Controller.Reset()
	return a.services.Tracker.ResetAll(a.ctx)
}

// SignUp registers a new contributor account.
func (a *App) SignUp(email, password, fullName string) (domain.Profile, error) {
	if err := a.requireReady(); err != nil {
		return domain.Profile{}, err
	}
	return a.services.Auth.SignUp(a.ctx, email, password, fullName)
}

// SignIn authenticates and loads the user's progress.
func (a *App) SignIn(email, password string) (domain.AuthSession, error) {
	if err := a.requireReady(); err != nil {
		return domain.AuthSession{}, err
	}
	session, err := a.services.Auth.SignIn(a.ctx, email, password)
	if err != nil {
		a.SessionError(domain.ErrorCodeAuth, err.Error())
		return domain.AuthSession{}, err
	}

	a.mu.Lock()
	a.session = session
	a.mu.Unlock()

	if _, err := a.services.Tracker.Load(a.ctx, session.Profile.ID); err != nil {
		a.SessionError(domain.ErrorCodeProgressSync, err.Error())
	}
	if a.services.Feed != nil {
		if err := a.services.Tracker.Watch(a.ctx, a.services.Feed); err != nil {
			a.SessionError(domain.ErrorCodeProgressSync, err.Error())
		}
	}
	return session, nil
}

// SignOut flushes progress, abandons any session and clears the token.
func (a *App) SignOut() error {
	if err := a.requireReady(); err != nil {
		return err
	}

	a.mu.Lock()
	token := a.session.Token
	a.session = domain.AuthSession{}
	a.mu.Unlock()

	if token == "" {
		return nil
	}
	a.services.Controller.Reset()
	a.services.Tracker.Unwatch()
	_ = a.services.Tracker.Flush(a.ctx)
	return a.services.Auth.SignOut(a.ctx, token)
}

// CurrentSession returns the signed-in session, if any.
func (a *App) CurrentSession() (domain.AuthSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.session.Token != ""
}

// Recordings lists the signed-in user's recordings with playback URLs.
func (a *App) Recordings() ([]domain.UploadedRecording, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	user, err := a.CurrentUser(a.ctx)
	if err != nil {
		return nil, err
	}
	return a.services.Library.ListByUser(a.ctx, user.ID)
}

// AllRecordings lists recordings across users. Administrators only.
func (a *App) AllRecordings(userID, category string) ([]domain.UploadedRecording, error) {
	if err := a.requireReady(); err != nil {
		return nil, err
	}
	user, err := a.CurrentUser(a.ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, errors.New("administrator role required")
	}
	return a.services.Library.ListAll(a.ctx, domain.RecordingFilter{
		UserID:   userID,
		Category: domain.Category(category),
	})
}

// DeleteRecording removes one recording, object first, then metadata.
func (a *App) DeleteRecording(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	user, err := a.CurrentUser(a.ctx)
	if err != nil {
		return err
	}
	rec, err := a.services.Library.ListByUser(a.ctx, user.ID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin && !ownsRecording(rec, id) {
		return errors.New("recording does not belong to the signed-in user")
	}
	return a.services.Library.Delete(a.ctx, id)
}

// CurrentUser resolves the signed-in profile. Satisfies the identity
// dependency of the session controller.
func (a *App) CurrentUser(ctx context.Context) (domain.Profile, error) {
	a.mu.Lock()
	token := a.session.Token
	a.mu.Unlock()
	if token == "" {
		return domain.Profile{}, errors.New("not signed in")
	}
	return a.services.Auth.Session(ctx, token)
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.services.Controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

func (a *App) requireSignedIn() error {
	if _, err := a.CurrentUser(a.ctx); err != nil {
		return err
	}
	return nil
}

func ownsRecording(recs []domain.UploadedRecording, id string) bool {
	for _, rec := range recs {
		if rec.ID == id {
			return true
		}
	}
	return false
}

// PhaseChanged emits session lifecycle updates to the frontend.
func (a *App) PhaseChanged(phase domain.Phase, reason domain.PhaseReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventPhase, map[string]string{
		"phase":   string(phase),
		"reason":  string(reason),
		"message": phaseReasonMessage(reason),
	})
}

// CountdownTick emits the remaining countdown seconds.
func (a *App) CountdownTick(remaining int) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventCountdown, map[string]int{"remaining": remaining})
}

// RecordingTick emits wall-clock elapsed time while recording.
func (a *App) RecordingTick(elapsed float64, remaining float64) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventTick, map[string]float64{
		"elapsed":   elapsed,
		"remaining": remaining,
	})
}

// ProgressChanged emits the latest progress snapshot.
func (a *App) ProgressChanged(snapshot domain.ProgressSnapshot) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventProgress, snapshot)
}

// SessionError emits backend errors to the UI.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func phaseReasonMessage(reason domain.PhaseReason) string {
	switch reason {
	case domain.PhaseReasonStartup:
		return "Ready"
	case domain.PhaseReasonCountdownStarted:
		return "Get ready..."
	case domain.PhaseReasonRecordingStarted:
		return "Recording"
	case domain.PhaseReasonRecordingStopped:
		return "Recording stopped. Review your take"
	case domain.PhaseReasonTimeLimitReached:
		return "Time limit reached. Review your take"
	case domain.PhaseReasonCaptureTooShort:
		return "Recording too short, please try again"
	case domain.PhaseReasonCaptureFailed:
		return "Recording failed"
	case domain.PhaseReasonSubmitStarted:
		return "Saving recording..."
	case domain.PhaseReasonRecordingSaved:
		return "Recording saved"
	case domain.PhaseReasonUploadFailed:
		return "Save failed. Your recording is kept for retry"
	case domain.PhaseReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.PhaseReasonSessionReset:
		return "Session reset"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodePermission:
		return "Microphone access denied"
	case domain.ErrorCodeCapture:
		return "Audio capture issue"
	case domain.ErrorCodeUpload:
		return "Upload failed"
	case domain.ErrorCodeMetadata:
		return "Could not save recording details"
	case domain.ErrorCodeProgressSync:
		return "Progress sync issue"
	case domain.ErrorCodeAuth:
		return "Authentication failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
