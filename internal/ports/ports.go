package ports

import (
	"context"
	"io"
	"time"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions. Probe opens the device
// only to verify access and releases it immediately.
type AudioCapture interface {
	Probe(ctx context.Context) error
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// BlobStore is the path-addressed object storage collaborator.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context, keys []string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// RecordingStore persists recording metadata rows.
type RecordingStore interface {
	Insert(ctx context.Context, meta domain.RecordingMetadata, fileURL string, fileSize int64) (domain.UploadedRecording, error)
	Get(ctx context.Context, id string) (domain.UploadedRecording, error)
	ListByUser(ctx context.Context, userID string) ([]domain.UploadedRecording, error)
	ListAll(ctx context.Context, filter domain.RecordingFilter) ([]domain.UploadedRecording, error)
	Delete(ctx context.Context, id string) error
}

// ProgressStore persists one copy of a user's progress. The bool result of
// Load reports whether a record existed.
type ProgressStore interface {
	Load(ctx context.Context, userID string) (domain.ProgressSnapshot, bool, error)
	Save(ctx context.Context, userID string, snapshot domain.ProgressSnapshot) error
}

// ProgressFeed delivers remote progress snapshots pushed by the backend.
// The channel is closed when the subscription ends.
type ProgressFeed interface {
	Subscribe(ctx context.Context, userID string) (<-chan domain.ProgressSnapshot, error)
}

// Authenticator is the auth collaborator surface.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, fullName string) (domain.Profile, error)
	SignIn(ctx context.Context, email, password string) (domain.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (domain.Profile, error)
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	PhaseChanged(phase domain.Phase, reason domain.PhaseReason)
	CountdownTick(remaining int)
	RecordingTick(elapsed float64, remaining float64)
	ProgressChanged(snapshot domain.ProgressSnapshot)
	SessionError(code domain.ErrorCode, detail string)
}
