package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenLocal("")
	require.NoError(t, err)
	return db
}

func sampleMeta(userID, scriptID string, category domain.Category) domain.RecordingMetadata {
	return domain.RecordingMetadata{
		UserID:     userID,
		ScriptID:   scriptID,
		Title:      string(category) + " - " + scriptID,
		ScriptText: "sample text",
		Category:   category,
		Duration:   5.5,
		MimeType:   "audio/wav",
	}
}

func TestRecordingsInsertAndGet(t *testing.T) {
	t.Parallel()

	recordings := NewRecordings(openTestDB(t))
	ctx := context.Background()

	rec, err := recordings.Insert(ctx, sampleMeta("user-1", "hf-1", domain.CategoryHighFluency), "recordings/user-1/high_fluency_hf-1_1.wav", 2048)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := recordings.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "hf-1", got.ScriptID)
	assert.Equal(t, domain.CategoryHighFluency, got.Category)
	assert.Equal(t, int64(2048), got.FileSize)
	assert.Equal(t, "recordings/user-1/high_fluency_hf-1_1.wav", got.FileURL)
}

func TestRecordingsGetMissing(t *testing.T) {
	t.Parallel()

	recordings := NewRecordings(openTestDB(t))
	_, err := recordings.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordingsListFilters(t *testing.T) {
	t.Parallel()

	recordings := NewRecordings(openTestDB(t))
	ctx := context.Background()

	_, err := recordings.Insert(ctx, sampleMeta("user-1", "hf-1", domain.CategoryHighFluency), "k1", 1)
	require.NoError(t, err)
	_, err = recordings.Insert(ctx, sampleMeta("user-1", "st-1", domain.CategorySlowTempo), "k2", 1)
	require.NoError(t, err)
	_, err = recordings.Insert(ctx, sampleMeta("user-2", "hf-2", domain.CategoryHighFluency), "k3", 1)
	require.NoError(t, err)

	mine, err := recordings.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := recordings.ListAll(ctx, domain.RecordingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fluent, err := recordings.ListAll(ctx, domain.RecordingFilter{Category: domain.CategoryHighFluency})
	require.NoError(t, err)
	assert.Len(t, fluent, 2)

	narrow, err := recordings.ListAll(ctx, domain.RecordingFilter{UserID: "user-1", Category: domain.CategoryHighFluency})
	require.NoError(t, err)
	require.Len(t, narrow, 1)
	assert.Equal(t, "hf-1", narrow[0].ScriptID)
}

func TestRecordingsDelete(t *testing.T) {
	t.Parallel()

	recordings := NewRecordings(openTestDB(t))
	ctx := context.Background()

	rec, err := recordings.Insert(ctx, sampleMeta("user-1", "hf-1", domain.CategoryHighFluency), "k1", 1)
	require.NoError(t, err)

	require.NoError(t, recordings.Delete(ctx, rec.ID))
	assert.ErrorIs(t, recordings.Delete(ctx, rec.ID), ErrNotFound)
}

func TestProgressLoadMissing(t *testing.T) {
	t.Parallel()

	progress := NewProgress(openTestDB(t))
	_, found, err := progress.Load(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProgressSaveUpserts(t *testing.T) {
	t.Parallel()

	progress := NewProgress(openTestDB(t))
	ctx := context.Background()

	first := domain.ProgressSnapshot{
		CompletedScriptIDs: []string{"hf-1"},
		CurrentCategory:    domain.CategoryHighFluency,
		LastUpdated:        time.UnixMilli(100).UTC(),
	}
	require.NoError(t, progress.Save(ctx, "user-1", first))

	second := domain.ProgressSnapshot{
		CompletedScriptIDs: []string{"hf-1", "hf-2"},
		CurrentCategory:    domain.CategoryMediumFluency,
		LastUpdated:        time.UnixMilli(200).UTC(),
	}
	require.NoError(t, progress.Save(ctx, "user-1", second))

	got, found, err := progress.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"hf-1", "hf-2"}, got.CompletedScriptIDs)
	assert.Equal(t, domain.CategoryMediumFluency, got.CurrentCategory)
	assert.Equal(t, time.UnixMilli(200).UTC(), got.LastUpdated.UTC())
}

func TestProgressSaveEmptySnapshot(t *testing.T) {
	t.Parallel()

	progress := NewProgress(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, progress.Save(ctx, "user-1", domain.ProgressSnapshot{
		CurrentCategory: domain.CategoryHighFluency,
		LastUpdated:     time.UnixMilli(100),
	}))

	got, found, err := progress.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, got.CompletedScriptIDs)
}

func TestProfilesCreateAndLookup(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(openTestDB(t))
	ctx := context.Background()

	profile := domain.Profile{
		ID:       "user-1",
		Email:    "Sarah@Example.com",
		FullName: "Sarah Chen",
		Role:     domain.RoleUser,
	}
	require.NoError(t, profiles.Create(ctx, profile, "hash"))

	// Lookup is case-insensitive through lowercased storage.
	got, hash, err := profiles.ByEmail(ctx, "sarah@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "sarah@example.com", got.Email)
	assert.Equal(t, "hash", hash)

	byID, err := profiles.ByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, byID.Role)
}

func TestProfilesDuplicateEmail(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(openTestDB(t))
	ctx := context.Background()

	profile := domain.Profile{ID: "user-1", Email: "sarah@example.com", Role: domain.RoleUser}
	require.NoError(t, profiles.Create(ctx, profile, "hash"))

	dup := domain.Profile{ID: "user-2", Email: "sarah@example.com", Role: domain.RoleUser}
	err := profiles.Create(ctx, dup, "hash")
	assert.True(t, errors.Is(err, ErrEmailTaken), "expected ErrEmailTaken, got %v", err)
}

func TestProfilesConfirmEmail(t *testing.T) {
	t.Parallel()

	profiles := NewProfiles(openTestDB(t))
	ctx := context.Background()

	profile := domain.Profile{ID: "user-1", Email: "sarah@example.com", Role: domain.RoleUser}
	require.NoError(t, profiles.Create(ctx, profile, "hash"))
	require.NoError(t, profiles.ConfirmEmail(ctx, "user-1"))

	got, err := profiles.ByID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, got.EmailConfirmed)

	assert.ErrorIs(t, profiles.ConfirmEmail(ctx, "missing"), ErrNotFound)
}
