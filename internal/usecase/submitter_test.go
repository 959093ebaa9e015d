package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

func testMetadata() domain.RecordingMetadata {
	return domain.RecordingMetadata{
		UserID:     "user-1",
		ScriptID:   "hf-1",
		Title:      "HIGH_FLUENCY - Smooth Introduction",
		ScriptText: "Hello, my name is Sarah.",
		Category:   domain.CategoryHighFluency,
		Duration:   5.2,
		MimeType:   "audio/wav",
	}
}

func TestSubmitterSuccess(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	submitter := NewSubmitter(blobs, store, 0, nil)
	submitter.now = func() time.Time { return time.UnixMilli(1700000000000) }

	blob := bytes.Repeat([]byte{0x01}, 2048)
	rec, err := submitter.Submit(context.Background(), blob, testMetadata())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	wantKey := "recordings/user-1/high_fluency_hf-1_1700000000000.wav"
	if rec.FileURL != wantKey {
		t.Fatalf("unexpected key %q, want %q", rec.FileURL, wantKey)
	}
	if rec.FileSize != int64(len(blob)) {
		t.Fatalf("unexpected file size %d", rec.FileSize)
	}

	blobs.mu.Lock()
	stored, ok := blobs.objects[wantKey]
	blobs.mu.Unlock()
	if !ok || !bytes.Equal(stored, blob) {
		t.Fatalf("uploaded object missing or corrupted")
	}
}

func TestSubmitterRejectsOversizedBlob(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	submitter := NewSubmitter(blobs, newFakeRecordingStore(), 1024, nil)

	_, err := submitter.Submit(context.Background(), bytes.Repeat([]byte{0x01}, 2048), testMetadata())
	if !errors.Is(err, ErrBlobTooLarge) {
		t.Fatalf("expected ErrBlobTooLarge, got %v", err)
	}
	if len(blobs.snapshotKeys()) != 0 {
		t.Fatalf("no upload should happen for an oversized blob")
	}
}

func TestSubmitterRejectsEmptyBlob(t *testing.T) {
	t.Parallel()

	submitter := NewSubmitter(newFakeBlobStore(), newFakeRecordingStore(), 0, nil)
	if _, err := submitter.Submit(context.Background(), nil, testMetadata()); !errors.Is(err, ErrEmptyBlob) {
		t.Fatalf("expected ErrEmptyBlob, got %v", err)
	}
}

func TestSubmitterRejectsInvalidMetadata(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	submitter := NewSubmitter(blobs, newFakeRecordingStore(), 0, nil)
	blob := bytes.Repeat([]byte{0x01}, 2048)

	for name, mutate := range map[string]func(*domain.RecordingMetadata){
		"missing user":     func(m *domain.RecordingMetadata) { m.UserID = "" },
		"missing script":   func(m *domain.RecordingMetadata) { m.ScriptID = "" },
		"unknown category": func(m *domain.RecordingMetadata) { m.Category = "SHOUTING" },
		"missing mime":     func(m *domain.RecordingMetadata) { m.MimeType = "" },
	} {
		meta := testMetadata()
		mutate(&meta)
		if _, err := submitter.Submit(context.Background(), blob, meta); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if len(blobs.snapshotKeys()) != 0 {
		t.Fatalf("no upload should happen for invalid metadata")
	}
}

func TestSubmitterCompensatesFailedInsert(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	store := newFakeRecordingStore()
	store.insertErr = errors.New("insert rejected")
	submitter := NewSubmitter(blobs, store, 0, nil)

	_, err := submitter.Submit(context.Background(), bytes.Repeat([]byte{0x01}, 2048), testMetadata())
	if err == nil {
		t.Fatalf("expected submit to fail")
	}
	if len(blobs.snapshotKeys()) != 0 {
		t.Fatalf("uploaded object should be deleted after failed insert, got %v", blobs.snapshotKeys())
	}
	blobs.mu.Lock()
	deletes := len(blobs.deleted)
	blobs.mu.Unlock()
	if deletes != 1 {
		t.Fatalf("expected one compensating delete, got %d", deletes)
	}
}

func TestSubmitterReportsFailedCompensation(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	blobs.delErr = errors.New("storage unreachable")
	store := newFakeRecordingStore()
	store.insertErr = errors.New("insert rejected")
	submitter := NewSubmitter(blobs, store, 0, nil)

	_, err := submitter.Submit(context.Background(), bytes.Repeat([]byte{0x01}, 2048), testMetadata())
	if err == nil {
		t.Fatalf("expected submit to fail")
	}
	if !strings.Contains(err.Error(), "insert rejected") || !strings.Contains(err.Error(), "cleanup") {
		t.Fatalf("error should mention both failures, got %v", err)
	}
}

func TestSubmitterUploadFailureSkipsInsert(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	blobs.putErr = errors.New("bucket missing")
	store := newFakeRecordingStore()
	submitter := NewSubmitter(blobs, store, 0, nil)

	_, err := submitter.Submit(context.Background(), bytes.Repeat([]byte{0x01}, 2048), testMetadata())
	if err == nil {
		t.Fatalf("expected submit to fail")
	}
	store.mu.Lock()
	rows := len(store.rows)
	store.mu.Unlock()
	if rows != 0 {
		t.Fatalf("no metadata row should exist after failed upload")
	}
}
