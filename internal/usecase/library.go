package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

const DefaultPlaybackTTL = 15 * time.Minute

// Library exposes saved recordings: per-user and admin listings with
// time-limited playback URLs, and deletion that keeps object storage and
// metadata in step.
type Library struct {
	store       ports.RecordingStore
	blobs       ports.BlobStore
	playbackTTL time.Duration
	log         *zap.Logger
}

func NewLibrary(store ports.RecordingStore, blobs ports.BlobStore, playbackTTL time.Duration, log *zap.Logger) *Library {
	if playbackTTL <= 0 {
		playbackTTL = DefaultPlaybackTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{store: store, blobs: blobs, playbackTTL: playbackTTL, log: log}
}

// ListByUser returns the user's recordings, newest first, each with a signed
// playback URL. A recording whose URL cannot be signed is still listed.
func (l *Library) ListByUser(ctx context.Context, userID string) ([]domain.UploadedRecording, error) {
	recs, err := l.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	l.attachPlaybackURLs(ctx, recs)
	return recs, nil
}

// ListAll returns recordings across all users, optionally narrowed by the
// filter. Intended for administrators.
func (l *Library) ListAll(ctx context.Context, filter domain.RecordingFilter) ([]domain.UploadedRecording, error) {
	recs, err := l.store.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	l.attachPlaybackURLs(ctx, recs)
	return recs, nil
}

func (l *Library) attachPlaybackURLs(ctx context.Context, recs []domain.UploadedRecording) {
	for i := range recs {
		url, err := l.blobs.SignedURL(ctx, recs[i].FileURL, l.playbackTTL)
		if err != nil {
			l.log.Warn("failed to sign playback url",
				zap.String("recording_id", recs[i].ID), zap.Error(err))
			continue
		}
		recs[i].PlaybackURL = url
	}
}

// Delete removes a recording in two steps: the storage object first, then
// the metadata row. When the object delete fails the row is kept so the
// recording stays listable and the delete can be retried.
func (l *Library) Delete(ctx context.Context, id string) error {
	rec, err := l.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load recording %s: %w", id, err)
	}
	if err := l.blobs.Delete(ctx, rec.FileURL); err != nil {
		return fmt.Errorf("delete recording object: %w", err)
	}
	if err := l.store.Delete(ctx, id); err != nil {
		// The object is already gone; the stale row is the lesser evil and
		// the next delete attempt will clear it.
		l.log.Error("metadata row survived object delete",
			zap.String("recording_id", id), zap.Error(err))
		return fmt.Errorf("delete recording metadata: %w", err)
	}
	return nil
}

// PurgeCategory deletes all of a user's recordings in one category, objects
// first in a single bulk call, then the rows. Used when category progress
// is reset.
func (l *Library) PurgeCategory(ctx context.Context, userID string, category domain.Category) error {
	recs, err := l.store.ListAll(ctx, domain.RecordingFilter{UserID: userID, Category: category})
	if err != nil {
		return fmt.Errorf("list recordings for purge: %w", err)
	}
	if len(recs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, rec.FileURL)
	}
	if err := l.blobs.DeleteAll(ctx, keys); err != nil {
		return fmt.Errorf("delete recording objects: %w", err)
	}

	for _, rec := range recs {
		if err := l.store.Delete(ctx, rec.ID); err != nil {
			l.log.Error("metadata row survived category purge",
				zap.String("recording_id", rec.ID), zap.Error(err))
			return fmt.Errorf("delete recording metadata: %w", err)
		}
	}
	l.log.Info("category recordings purged",
		zap.String("user_id", userID),
		zap.String("category", string(category)),
		zap.Int("count", len(recs)))
	return nil
}
