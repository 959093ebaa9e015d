package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

// Recordings persists recording metadata rows.
type Recordings struct {
	db *gorm.DB
}

func NewRecordings(db *gorm.DB) *Recordings {
	return &Recordings{db: db}
}

func (r *Recordings) Insert(ctx context.Context, meta domain.RecordingMetadata, fileURL string, fileSize int64) (domain.UploadedRecording, error) {
	row := RecordingRow{
		ID:              uuid.NewString(),
		UserID:          meta.UserID,
		ScriptID:        meta.ScriptID,
		Category:        string(meta.Category),
		Title:           meta.Title,
		ScriptText:      meta.ScriptText,
		FileURL:         fileURL,
		DurationSeconds: meta.Duration,
		SizeBytes:       fileSize,
		MimeType:        meta.MimeType,
		CreatedAt:       time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.UploadedRecording{}, fmt.Errorf("insert recording row: %w", err)
	}
	return rowToRecording(row), nil
}

func (r *Recordings) Get(ctx context.Context, id string) (domain.UploadedRecording, error) {
	var row RecordingRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UploadedRecording{}, fmt.Errorf("recording %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.UploadedRecording{}, fmt.Errorf("load recording row: %w", err)
	}
	return rowToRecording(row), nil
}

func (r *Recordings) ListByUser(ctx context.Context, userID string) ([]domain.UploadedRecording, error) {
	return r.ListAll(ctx, domain.RecordingFilter{UserID: userID})
}

func (r *Recordings) ListAll(ctx context.Context, filter domain.RecordingFilter) ([]domain.UploadedRecording, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}

	var rows []RecordingRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recording rows: %w", err)
	}
	out := make([]domain.UploadedRecording, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToRecording(row))
	}
	return out, nil
}

func (r *Recordings) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&RecordingRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete recording row: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recording %s: %w", id, ErrNotFound)
	}
	return nil
}

func rowToRecording(row RecordingRow) domain.UploadedRecording {
	return domain.UploadedRecording{
		ID:        row.ID,
		UserID:    row.UserID,
		ScriptID:  row.ScriptID,
		Category:  domain.Category(row.Category),
		FileURL:   row.FileURL,
		Title:     row.Title,
		Duration:  row.DurationSeconds,
		FileSize:  row.SizeBytes,
		MimeType:  row.MimeType,
		CreatedAt: row.CreatedAt,
	}
}
