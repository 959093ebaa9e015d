package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the gateway.
type Config struct {
	Audio    AudioConfig
	Session  SessionConfig
	Local    LocalStoreConfig
	Remote   RemoteConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Progress ProgressConfig
	Log      LogConfig
}

type AudioConfig struct {
	RecorderCommand string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type SessionConfig struct {
	CountdownStart    int
	CountdownInterval time.Duration
	RecordTick        time.Duration
	RecordLimit       time.Duration
	MinBlobBytes      int
	MaxUploadBytes    int64
	ChunkSize         int
}

type LocalStoreConfig struct {
	Path string
}

type RemoteConfig struct {
	DatabaseDSN string
	FeedBaseURL string
}

type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	UseSSL      bool
	PlaybackTTL time.Duration
}

type AuthConfig struct {
	SessionTTL          time.Duration
	RequireConfirmation bool
}

type ProgressConfig struct {
	FlushDelay time.Duration
}

type LogConfig struct {
	Level      string
	Filename   string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// Load resolves configuration from a .env file (when present) and the
// environment, with sensible defaults.
func Load() (Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := Config{
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("VOICEGW_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:     envOrDefault("VOICEGW_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:     envOrDefault("VOICEGW_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:      envOrDefaultInt("VOICEGW_SAMPLE_RATE", 44100),
			Channels:        envOrDefaultInt("VOICEGW_CHANNELS", 1),
		},
		Session: SessionConfig{
			CountdownStart:    envOrDefaultInt("VOICEGW_COUNTDOWN_START", 3),
			CountdownInterval: time.Second,
			RecordTick:        100 * time.Millisecond,
			RecordLimit:       time.Duration(envOrDefaultInt("VOICEGW_RECORD_LIMIT_SECONDS", 7)) * time.Second,
			MinBlobBytes:      envOrDefaultInt("VOICEGW_MIN_BLOB_BYTES", 1024),
			MaxUploadBytes:    int64(envOrDefaultInt("VOICEGW_MAX_UPLOAD_MB", 10)) << 20,
			ChunkSize:         envOrDefaultInt("VOICEGW_AUDIO_CHUNK_SIZE", 4096),
		},
		Local: LocalStoreConfig{
			Path: localDatabasePath(),
		},
		Remote: RemoteConfig{
			DatabaseDSN: strings.TrimSpace(os.Getenv("VOICEGW_DATABASE_DSN")),
			FeedBaseURL: strings.TrimSpace(os.Getenv("VOICEGW_FEED_BASE_URL")),
		},
		Storage: StorageConfig{
			Endpoint:    strings.TrimSpace(os.Getenv("VOICEGW_MINIO_ENDPOINT")),
			AccessKey:   strings.TrimSpace(os.Getenv("VOICEGW_MINIO_ACCESS_KEY")),
			SecretKey:   strings.TrimSpace(os.Getenv("VOICEGW_MINIO_SECRET_KEY")),
			Bucket:      envOrDefault("VOICEGW_MINIO_BUCKET", "voice_recordings"),
			UseSSL:      envOrDefaultBool("VOICEGW_MINIO_USE_SSL", false),
			PlaybackTTL: time.Duration(envOrDefaultInt("VOICEGW_PLAYBACK_TTL_MINUTES", 15)) * time.Minute,
		},
		Auth: AuthConfig{
			SessionTTL:          time.Duration(envOrDefaultInt("VOICEGW_SESSION_TTL_HOURS", 24)) * time.Hour,
			RequireConfirmation: envOrDefaultBool("VOICEGW_REQUIRE_EMAIL_CONFIRMATION", false),
		},
		Progress: ProgressConfig{
			FlushDelay: time.Duration(envOrDefaultInt("VOICEGW_PROGRESS_FLUSH_MS", 1000)) * time.Millisecond,
		},
		Log: LogConfig{
			Level:      envOrDefault("VOICEGW_LOG_LEVEL", "info"),
			Filename:   strings.TrimSpace(os.Getenv("VOICEGW_LOG_FILE")),
			MaxSizeMB:  envOrDefaultInt("VOICEGW_LOG_MAX_SIZE_MB", 20),
			MaxAgeDays: envOrDefaultInt("VOICEGW_LOG_MAX_AGE_DAYS", 14),
			MaxBackups: envOrDefaultInt("VOICEGW_LOG_MAX_BACKUPS", 3),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 44100
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.CountdownStart <= 0 {
		cfg.Session.CountdownStart = 3
	}
	if cfg.Session.RecordLimit <= 0 {
		cfg.Session.RecordLimit = 7 * time.Second
	}
	if cfg.Session.MinBlobBytes <= 0 {
		cfg.Session.MinBlobBytes = 1024
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Progress.FlushDelay <= 0 {
		cfg.Progress.FlushDelay = time.Second
	}

	return cfg, nil
}

func localDatabasePath() string {
	if path := strings.TrimSpace(os.Getenv("VOICEGW_LOCAL_DB_PATH")); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "voice-gateway.db"
	}
	return filepath.Join(home, ".local", "share", "voice-gateway", "voice-gateway.db")
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
