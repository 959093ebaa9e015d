package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

const DefaultMaxUploadBytes = 10 << 20

var (
	ErrEmptyBlob    = errors.New("recording blob is empty")
	ErrBlobTooLarge = errors.New("recording blob exceeds the upload size limit")
)

// Submitter performs the two-phase persist of a finalized recording: the blob
// goes to object storage first, then the metadata row is inserted. A failed
// insert triggers a compensating delete of the just-uploaded object.
type Submitter struct {
	blobs    ports.BlobStore
	store    ports.RecordingStore
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewSubmitter(blobs ports.BlobStore, store ports.RecordingStore, maxBytes int64, log *zap.Logger) *Submitter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{
		blobs:    blobs,
		store:    store,
		maxBytes: maxBytes,
		log:      log,
		now:      time.Now,
	}
}

// Submit validates the blob and metadata, uploads the object and inserts the
// metadata row. On insert failure the uploaded object is deleted so storage
// and metadata stay consistent; a failed compensation is reported in the
// returned error and logged.
func (s *Submitter) Submit(ctx context.Context, blob []byte, meta domain.RecordingMetadata) (domain.UploadedRecording, error) {
	if err := validateMetadata(meta); err != nil {
		return domain.UploadedRecording{}, err
	}
	if len(blob) == 0 {
		return domain.UploadedRecording{}, ErrEmptyBlob
	}
	if int64(len(blob)) > s.maxBytes {
		return domain.UploadedRecording{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrBlobTooLarge, len(blob), s.maxBytes)
	}

	key := s.objectKey(meta)
	if err := s.blobs.Put(ctx, key, blob, meta.MimeType); err != nil {
		return domain.UploadedRecording{}, fmt.Errorf("upload recording object: %w", err)
	}

	rec, err := s.store.Insert(ctx, meta, key, int64(len(blob)))
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.Error("orphaned object left in storage after failed metadata insert",
				zap.String("key", key),
				zap.NamedError("insert_error", err),
				zap.Error(delErr))
			return domain.UploadedRecording{}, fmt.Errorf("insert recording metadata: %w (cleanup of uploaded object failed: %v)", err, delErr)
		}
		return domain.UploadedRecording{}, fmt.Errorf("insert recording metadata: %w (uploaded object removed)", err)
	}

	s.log.Info("recording saved",
		zap.String("user_id", meta.UserID),
		zap.String("script_id", meta.ScriptID),
		zap.String("key", key),
		zap.Int("bytes", len(blob)))
	return rec, nil
}

// objectKey builds the deterministic storage path, namespaced per user,
// unique per attempt through the millisecond timestamp.
func (s *Submitter) objectKey(meta domain.RecordingMetadata) string {
	return fmt.Sprintf("recordings/%s/%s_%s_%d.wav",
		meta.UserID,
		strings.ToLower(string(meta.Category)),
		meta.ScriptID,
		s.now().UnixMilli())
}

func validateMetadata(meta domain.RecordingMetadata) error {
	switch {
	case meta.UserID == "":
		return errors.New("recording metadata missing user id")
	case meta.ScriptID == "":
		return errors.New("recording metadata missing script id")
	case !meta.Category.Valid():
		return fmt.Errorf("recording metadata has unknown category %q", meta.Category)
	case meta.MimeType == "":
		return errors.New("recording metadata missing mime type")
	case meta.Duration < 0:
		return fmt.Errorf("recording metadata has negative duration %.2f", meta.Duration)
	}
	return nil
}
