package domain

import "time"

// Category classifies a script by the speech quality it is meant to elicit.
type Category string

const (
	CategoryHighFluency          Category = "HIGH_FLUENCY"
	CategoryMediumFluency        Category = "MEDIUM_FLUENCY"
	CategoryLowFluency           Category = "LOW_FLUENCY"
	CategoryClearPronunciation   Category = "CLEAR_PRONUNCIATION"
	CategoryUnclearPronunciation Category = "UNCLEAR_PRONUNCIATION"
	CategoryFastTempo            Category = "FAST_TEMPO"
	CategoryMediumTempo          Category = "MEDIUM_TEMPO"
	CategorySlowTempo            Category = "SLOW_TEMPO"
)

// Categories lists the eight fixed categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHighFluency,
		CategoryMediumFluency,
		CategoryLowFluency,
		CategoryClearPronunciation,
		CategoryUnclearPronunciation,
		CategoryFastTempo,
		CategoryMediumTempo,
		CategorySlowTempo,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Script is an immutable catalog entry the user reads aloud.
type Script struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Order    int      `json:"order"`
}

// Phase models the recording session lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCountdown  Phase = "countdown"
	PhaseRecording  Phase = "recording"
	PhaseReviewing  Phase = "reviewing"
	PhaseSubmitting Phase = "submitting"
)

// PhaseReason provides a structured reason for phase transitions.
type PhaseReason string

const (
	PhaseReasonStartup            PhaseReason = "startup"
	PhaseReasonCountdownStarted   PhaseReason = "countdown_started"
	PhaseReasonRecordingStarted   PhaseReason = "recording_started"
	PhaseReasonRecordingStopped   PhaseReason = "recording_stopped"
	PhaseReasonTimeLimitReached   PhaseReason = "time_limit_reached"
	PhaseReasonCaptureTooShort    PhaseReason = "capture_too_short"
	PhaseReasonCaptureFailed      PhaseReason = "capture_failed"
	PhaseReasonSubmitStarted      PhaseReason = "submit_started"
	PhaseReasonRecordingSaved     PhaseReason = "recording_saved"
	PhaseReasonUploadFailed       PhaseReason = "upload_failed"
	PhaseReasonRecordingDiscarded PhaseReason = "recording_discarded"
	PhaseReasonSessionReset       PhaseReason = "session_reset"
)

// ErrorCode identifies non-fatal and fatal backend errors surfaced to the UI.
type ErrorCode string

const (
	ErrorCodeStartup      ErrorCode = "startup"
	ErrorCodePermission   ErrorCode = "permission"
	ErrorCodeCapture      ErrorCode = "capture"
	ErrorCodeUpload       ErrorCode = "upload"
	ErrorCodeMetadata     ErrorCode = "metadata"
	ErrorCodeProgressSync ErrorCode = "progress_sync"
	ErrorCodeAuth         ErrorCode = "auth"
)

// Permission is the microphone access tri-state.
type Permission string

const (
	PermissionUnknown Permission = "unknown"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Status summarizes the current session for the UI.
type Status struct {
	Phase              Phase      `json:"phase"`
	Active             bool       `json:"active"`
	ScriptID           string     `json:"scriptId,omitempty"`
	CountdownRemaining int        `json:"countdownRemaining,omitempty"`
	ElapsedSeconds     float64    `json:"elapsedSeconds,omitempty"`
	Permission         Permission `json:"permission"`
	Message            string     `json:"message,omitempty"`
}

// RecordingMetadata is the typed payload handed to the submitter alongside the
// finalized blob. It is validated before any network call is attempted.
type RecordingMetadata struct {
	UserID     string
	ScriptID   string
	Title      string
	ScriptText string
	Category   Category
	Duration   float64
	MimeType   string
}

// UploadedRecording is the durable record created after a successful upload.
type UploadedRecording struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ScriptID  string    `json:"scriptId"`
	Category  Category  `json:"category"`
	FileURL   string    `json:"fileUrl"`
	Title     string    `json:"title"`
	Duration  float64   `json:"durationSeconds"`
	FileSize  int64     `json:"fileSizeBytes"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`

	// PlaybackURL is a time-limited signed URL, populated on listing only.
	PlaybackURL string `json:"playbackUrl,omitempty"`
}

// ProgressSnapshot is one copy of a user's durable progress state. Two copies
// exist, a local fast-path one and a remote durable one, reconciled by
// LastUpdated comparison.
type ProgressSnapshot struct {
	CompletedScriptIDs []string  `json:"completedScriptIds"`
	CurrentCategory    Category  `json:"currentCategory"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

// Completed reports whether the snapshot contains the given script id.
func (s ProgressSnapshot) Completed(scriptID string) bool {
	for _, id := range s.CompletedScriptIDs {
		if id == scriptID {
			return true
		}
	}
	return false
}

// Role distinguishes ordinary contributors from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is a user account row from the relational collaborator.
type Profile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Role           Role      `json:"role"`
	EmailConfirmed bool      `json:"emailConfirmed"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AuthSession is an authenticated session token with its owner.
type AuthSession struct {
	Token     string    `json:"token"`
	Profile   Profile   `json:"profile"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RecordingFilter narrows admin recording listings.
type RecordingFilter struct {
	UserID   string
	Category Category
}
