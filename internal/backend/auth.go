package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/store"
)

const DefaultSessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailNotConfirmed is distinguished from bad credentials so the UI
	// can tell the user to check their inbox instead of retyping a password.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrSessionExpired    = errors.New("session expired or unknown")
)

// Auth implements email/password authentication over the profile store,
// with opaque session tokens held in an expiring in-memory cache.
type Auth struct {
	profiles   *store.Profiles
	sessions   *gocache.Cache
	sessionTTL time.Duration
	log        *zap.Logger

	// requireConfirmation gates sign-in on a confirmed email address.
	requireConfirmation bool
}

func NewAuth(profiles *store.Profiles, sessionTTL time.Duration, requireConfirmation bool, log *zap.Logger) *Auth {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{
		profiles:            profiles,
		sessions:            gocache.New(sessionTTL, 10*time.Minute),
		sessionTTL:          sessionTTL,
		log:                 log,
		requireConfirmation: requireConfirmation,
	}
}

func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (domain.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Profile{}, fmt.Errorf("invalid email address %q", email)
	}
	if len(password) < 8 {
		return domain.Profile{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	profile := domain.Profile{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		Role:           domain.RoleUser,
		EmailConfirmed: !a.requireConfirmation,
		CreatedAt:      time.Now(),
	}
	if err := a.profiles.Create(ctx, profile, string(hash)); err != nil {
		return domain.Profile{}, err
	}
	a.log.Info("user registered", zap.String("user_id", profile.ID))
	return profile, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (domain.AuthSession, error) {
	profile, hash, err := a.profiles.ByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.AuthSession{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.AuthSession{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return domain.AuthSession{}, ErrInvalidCredentials
	}
	if a.requireConfirmation && !profile.EmailConfirmed {
		return domain.AuthSession{}, ErrEmailNotConfirmed
	}

	session := domain.AuthSession{
		Token:     uuid.NewString(),
		Profile:   profile,
		ExpiresAt: time.Now().Add(a.sessionTTL),
	}
	a.sessions.Set(session.Token, profile.ID, a.sessionTTL)
	a.log.Info("user signed in", zap.String("user_id", profile.ID))
	return session, nil
}

func (a *Auth) SignOut(_ context.Context, token string) error {
	a.sessions.Delete(token)
	return nil
}

// Session resolves a token back to its profile, re-reading the store so
// role or confirmation changes take effect without a new sign-in.
func (a *Auth) Session(ctx context.Context, token string) (domain.Profile, error) {
	userID, ok := a.sessions.Get(token)
	if !ok {
		return domain.Profile{}, ErrSessionExpired
	}
	profile, err := a.profiles.ByID(ctx, userID.(string))
	if errors.Is(err, store.ErrNotFound) {
		a.sessions.Delete(token)
		return domain.Profile{}, ErrSessionExpired
	}
	return profile, err
}
