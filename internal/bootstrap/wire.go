package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/audio"
	"github.com/gelogrammer/voice-gateway/internal/backend"
	"github.com/gelogrammer/voice-gateway/internal/config"
	"github.com/gelogrammer/voice-gateway/internal/logging"
	"github.com/gelogrammer/voice-gateway/internal/ports"
	"github.com/gelogrammer/voice-gateway/internal/progress"
	"github.com/gelogrammer/voice-gateway/internal/store"
	"github.com/gelogrammer/voice-gateway/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.SessionController
	Gate       *usecase.PermissionGate
	Tracker    *progress.Tracker
	Library    *usecase.Library
	Auth       *backend.Auth
	Feed       ports.ProgressFeed
	Config     config.Config
	Logger     *zap.Logger
}

// Build wires all backend dependencies for the current runtime.
func Build(ctx context.Context, events ports.EventSink, identity usecase.Identity) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	logger := logging.New(cfg.Log)

	if cfg.Remote.DatabaseDSN == "" {
		return Services{}, errors.New("VOICEGW_DATABASE_DSN is not configured")
	}
	if cfg.Storage.Endpoint == "" {
		return Services{}, errors.New("VOICEGW_MINIO_ENDPOINT is not configured")
	}

	localDB, err := store.OpenLocal(cfg.Local.Path)
	if err != nil {
		return Services{}, err
	}
	remoteDB, err := store.OpenRemote(cfg.Remote.DatabaseDSN)
	if err != nil {
		return Services{}, err
	}

	blobs, err := backend.NewMinioStore(ctx, backend.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	}, logger)
	if err != nil {
		return Services{}, err
	}

	recordings := store.NewRecordings(remoteDB)
	profiles := store.NewProfiles(remoteDB)
	localProgress := store.NewProgress(localDB)
	remoteProgress := store.NewProgress(remoteDB)

	library := usecase.NewLibrary(recordings, blobs, cfg.Storage.PlaybackTTL, logger)
	tracker := progress.NewTracker(localProgress, remoteProgress, library, events, cfg.Progress.FlushDelay, logger)
	auth := backend.NewAuth(profiles, cfg.Auth.SessionTTL, cfg.Auth.RequireConfirmation, logger)

	capture := audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand)
	gate := usecase.NewPermissionGate(capture)
	submitter := usecase.NewSubmitter(blobs, recordings, cfg.Session.MaxUploadBytes, logger)

	controller := usecase.NewSessionController(
		capture,
		gate,
		submitter,
		tracker,
		identity,
		events,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			CountdownStart:    cfg.Session.CountdownStart,
			CountdownInterval: cfg.Session.CountdownInterval,
			RecordTick:        cfg.Session.RecordTick,
			RecordLimit:       cfg.Session.RecordLimit,
			MinBlobBytes:      cfg.Session.MinBlobBytes,
			MaxUploadBytes:    cfg.Session.MaxUploadBytes,
			ChunkSize:         cfg.Session.ChunkSize,
		},
		logger,
	)

	services := Services{
		Controller: controller,
		Gate:       gate,
		Tracker:    tracker,
		Library:    library,
		Auth:       auth,
		Config:     cfg,
		Logger:     logger,
	}
	if cfg.Remote.FeedBaseURL != "" {
		services.Feed = backend.NewRealtimeFeed(backend.RealtimeConfig{BaseURL: cfg.Remote.FeedBaseURL}, logger)
	}
	return services, nil
}
