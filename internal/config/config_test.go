package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.RecorderCommand != "ffmpeg" || cfg.Audio.InputFormat != "pulse" {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Audio.SampleRate != 44100 || cfg.Audio.Channels != 1 {
		t.Fatalf("unexpected sample/channels: %+v", cfg.Audio)
	}
	if cfg.Session.CountdownStart != 3 || cfg.Session.RecordLimit != 7*time.Second {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Session.MinBlobBytes != 1024 || cfg.Session.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected blob bounds: %+v", cfg.Session)
	}
	if cfg.Storage.Bucket != "voice_recordings" {
		t.Fatalf("unexpected bucket: %q", cfg.Storage.Bucket)
	}
	if cfg.Progress.FlushDelay != time.Second {
		t.Fatalf("unexpected flush delay: %s", cfg.Progress.FlushDelay)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOICEGW_FFMPEG_COMMAND", "my-ffmpeg")
	t.Setenv("VOICEGW_AUDIO_INPUT_FORMAT", "alsa")
	t.Setenv("VOICEGW_AUDIO_INPUT_DEVICE", "mic0")
	t.Setenv("VOICEGW_SAMPLE_RATE", "48000")
	t.Setenv("VOICEGW_CHANNELS", "2")
	t.Setenv("VOICEGW_COUNTDOWN_START", "5")
	t.Setenv("VOICEGW_RECORD_LIMIT_SECONDS", "10")
	t.Setenv("VOICEGW_MIN_BLOB_BYTES", "2048")
	t.Setenv("VOICEGW_MAX_UPLOAD_MB", "20")
	t.Setenv("VOICEGW_LOCAL_DB_PATH", filepath.Join(home, "gw.db"))
	t.Setenv("VOICEGW_DATABASE_DSN", "postgres://gw")
	t.Setenv("VOICEGW_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("VOICEGW_MINIO_BUCKET", "my_bucket")
	t.Setenv("VOICEGW_MINIO_USE_SSL", "true")
	t.Setenv("VOICEGW_SESSION_TTL_HOURS", "2")
	t.Setenv("VOICEGW_REQUIRE_EMAIL_CONFIRMATION", "yes")
	t.Setenv("VOICEGW_PROGRESS_FLUSH_MS", "250")
	t.Setenv("VOICEGW_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.RecorderCommand != "my-ffmpeg" || cfg.Audio.InputFormat != "alsa" || cfg.Audio.InputDevice != "mic0" {
		t.Fatalf("unexpected audio config: %+v", cfg.Audio)
	}
	if cfg.Audio.SampleRate != 48000 || cfg.Audio.Channels != 2 {
		t.Fatalf("unexpected sample/channels: %+v", cfg.Audio)
	}
	if cfg.Session.CountdownStart != 5 || cfg.Session.RecordLimit != 10*time.Second {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Session.MinBlobBytes != 2048 || cfg.Session.MaxUploadBytes != 20<<20 {
		t.Fatalf("unexpected blob bounds: %+v", cfg.Session)
	}
	if cfg.Local.Path != filepath.Join(home, "gw.db") {
		t.Fatalf("unexpected local db path: %q", cfg.Local.Path)
	}
	if cfg.Remote.DatabaseDSN != "postgres://gw" {
		t.Fatalf("unexpected dsn: %q", cfg.Remote.DatabaseDSN)
	}
	if cfg.Storage.Endpoint != "localhost:9000" || cfg.Storage.Bucket != "my_bucket" || !cfg.Storage.UseSSL {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour || !cfg.Auth.RequireConfirmation {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Progress.FlushDelay != 250*time.Millisecond {
		t.Fatalf("unexpected flush delay: %s", cfg.Progress.FlushDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadInvalidNumericValuesFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VOICEGW_SAMPLE_RATE", "bad")
	t.Setenv("VOICEGW_CHANNELS", "-1")
	t.Setenv("VOICEGW_COUNTDOWN_START", "0")
	t.Setenv("VOICEGW_MIN_BLOB_BYTES", "-5")
	t.Setenv("VOICEGW_AUDIO_CHUNK_SIZE", "5")
	t.Setenv("VOICEGW_PROGRESS_FLUSH_MS", "bad")
	t.Setenv("VOICEGW_MINIO_USE_SSL", "not-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Audio.SampleRate != 44100 {
		t.Fatalf("expected default sample rate, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.Channels != 1 {
		t.Fatalf("expected default channels, got %d", cfg.Audio.Channels)
	}
	if cfg.Session.CountdownStart != 3 {
		t.Fatalf("expected default countdown, got %d", cfg.Session.CountdownStart)
	}
	if cfg.Session.MinBlobBytes != 1024 {
		t.Fatalf("expected default min blob bytes, got %d", cfg.Session.MinBlobBytes)
	}
	if cfg.Session.ChunkSize != 4096 {
		t.Fatalf("expected chunk size fallback, got %d", cfg.Session.ChunkSize)
	}
	if cfg.Progress.FlushDelay != time.Second {
		t.Fatalf("expected default flush delay, got %s", cfg.Progress.FlushDelay)
	}
	if cfg.Storage.UseSSL {
		t.Fatalf("expected ssl fallback false")
	}
}
