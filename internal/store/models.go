package store

import "time"

// ProfileRow backs user accounts. The password hash never leaves this
// package as part of a domain Profile.
type ProfileRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	Email          string `gorm:"size:255;uniqueIndex"`
	FullName       string `gorm:"size:255"`
	Role           string `gorm:"size:32"`
	EmailConfirmed bool
	PasswordHash   string `gorm:"size:128"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProfileRow) TableName() string { return "profiles" }

type RecordingRow struct {
	ID              string `gorm:"primaryKey;size:64"`
	UserID          string `gorm:"size:64;index"`
	ScriptID        string `gorm:"size:32;index"`
	Category        string `gorm:"size:64;index"`
	Title           string `gorm:"size:255"`
	ScriptText      string `gorm:"type:text"`
	FileURL         string `gorm:"size:1024"` // object storage key, not a public URL
	DurationSeconds float64
	SizeBytes       int64
	MimeType        string `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (RecordingRow) TableName() string { return "recordings" }

// UserProgressRow is one copy of a user's progress. The same shape lives in
// the local and the remote database; reconciliation happens above this layer.
type UserProgressRow struct {
	UserID           string `gorm:"primaryKey;size:64"`
	CompletedScripts string `gorm:"type:text"` // JSON array of script ids
	CurrentCategory  string `gorm:"size:64"`
	LastUpdated      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UserProgressRow) TableName() string { return "user_progress" }
