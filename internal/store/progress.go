package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

// Progress persists one copy of per-user progress. The same implementation
// runs against the local sqlite database and the remote postgres one.
type Progress struct {
	db *gorm.DB
}

func NewProgress(db *gorm.DB) *Progress {
	return &Progress{db: db}
}

func (p *Progress) Load(ctx context.Context, userID string) (domain.ProgressSnapshot, bool, error) {
	var row UserProgressRow
	err := p.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ProgressSnapshot{}, false, nil
	}
	if err != nil {
		return domain.ProgressSnapshot{}, false, fmt.Errorf("load progress row: %w", err)
	}

	var completed []string
	if row.CompletedScripts != "" {
		if err := json.Unmarshal([]byte(row.CompletedScripts), &completed); err != nil {
			return domain.ProgressSnapshot{}, false, fmt.Errorf("decode completed scripts: %w", err)
		}
	}
	return domain.ProgressSnapshot{
		CompletedScriptIDs: completed,
		CurrentCategory:    domain.Category(row.CurrentCategory),
		LastUpdated:        row.LastUpdated,
	}, true, nil
}

func (p *Progress) Save(ctx context.Context, userID string, snapshot domain.ProgressSnapshot) error {
	completed, err := json.Marshal(snapshot.CompletedScriptIDs)
	if err != nil {
		return fmt.Errorf("encode completed scripts: %w", err)
	}

	row := UserProgressRow{
		UserID:           userID,
		CompletedScripts: string(completed),
		CurrentCategory:  string(snapshot.CurrentCategory),
		LastUpdated:      snapshot.LastUpdated,
		UpdatedAt:        time.Now(),
	}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_scripts", "current_category", "last_updated", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save progress row: %w", err)
	}
	return nil
}
