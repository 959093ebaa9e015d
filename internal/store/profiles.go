package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

var ErrEmailTaken = errors.New("email already registered")

// Profiles persists user accounts together with their password hashes.
type Profiles struct {
	db *gorm.DB
}

func NewProfiles(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

func (p *Profiles) Create(ctx context.Context, profile domain.Profile, passwordHash string) error {
	row := ProfileRow{
		ID:             profile.ID,
		Email:          strings.ToLower(profile.Email),
		FullName:       profile.FullName,
		Role:           string(profile.Role),
		EmailConfirmed: profile.EmailConfirmed,
		PasswordHash:   passwordHash,
		CreatedAt:      time.Now(),
	}
	err := p.db.WithContext(ctx).Create(&row).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", profile.Email, ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("insert profile row: %w", err)
	}
	return nil
}

// ByEmail returns the profile and its password hash for credential checks.
func (p *Profiles) ByEmail(ctx context.Context, email string) (domain.Profile, string, error) {
	var row ProfileRow
	err := p.db.WithContext(ctx).First(&row, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Profile{}, "", fmt.Errorf("profile %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, "", fmt.Errorf("load profile row: %w", err)
	}
	return rowToProfile(row), row.PasswordHash, nil
}

func (p *Profiles) ByID(ctx context.Context, id string) (domain.Profile, error) {
	var row ProfileRow
	err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile row: %w", err)
	}
	return rowToProfile(row), nil
}

// ConfirmEmail flips the confirmation flag once the address is verified.
func (p *Profiles) ConfirmEmail(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Model(&ProfileRow{}).
		Where("id = ?", id).
		Update("email_confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("confirm email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func rowToProfile(row ProfileRow) domain.Profile {
	return domain.Profile{
		ID:             row.ID,
		Email:          row.Email,
		FullName:       row.FullName,
		Role:           domain.Role(row.Role),
		EmailConfirmed: row.EmailConfirmed,
		CreatedAt:      row.CreatedAt,
	}
}
