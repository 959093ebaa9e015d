package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/store"
)

func newTestAuth(t *testing.T, requireConfirmation bool) (*Auth, *store.Profiles) {
	t.Helper()
	db, err := store.OpenLocal("")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	profiles := store.NewProfiles(db)
	return NewAuth(profiles, time.Hour, requireConfirmation, nil), profiles
}

func TestAuthSignUpAndSignIn(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	ctx := context.Background()

	profile, err := auth.SignUp(ctx, "sarah@example.com", "correct-horse", "Sarah Chen")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if profile.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", profile.Role)
	}

	session, err := auth.SignIn(ctx, "sarah@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token")
	}
	if session.Profile.ID != profile.ID {
		t.Fatalf("session bound to wrong profile")
	}

	resolved, err := auth.Session(ctx, session.Token)
	if err != nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	if resolved.ID != profile.ID {
		t.Fatalf("unexpected profile %s", resolved.ID)
	}
}

func TestAuthSignInWrongPassword(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "sarah@example.com", "correct-horse", "Sarah"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if _, err := auth.SignIn(ctx, "sarah@example.com", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.SignIn(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

// An unconfirmed email is reported as its own error, not as bad credentials.
func TestAuthSignInUnconfirmedEmail(t *testing.T) {
	t.Parallel()

	auth, profiles := newTestAuth(t, true)
	ctx := context.Background()

	profile, err := auth.SignUp(ctx, "sarah@example.com", "correct-horse", "Sarah")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if profile.EmailConfirmed {
		t.Fatalf("new account should start unconfirmed")
	}

	if _, err := auth.SignIn(ctx, "sarah@example.com", "correct-horse"); !errors.Is(err, ErrEmailNotConfirmed) {
		t.Fatalf("expected ErrEmailNotConfirmed, got %v", err)
	}

	if err := profiles.ConfirmEmail(ctx, profile.ID); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := auth.SignIn(ctx, "sarah@example.com", "correct-horse"); err != nil {
		t.Fatalf("sign in after confirmation failed: %v", err)
	}
}

func TestAuthSignUpValidation(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "not-an-email", "correct-horse", "X"); err == nil {
		t.Fatalf("expected invalid email error")
	}
	if _, err := auth.SignUp(ctx, "sarah@example.com", "short", "X"); err == nil {
		t.Fatalf("expected short password error")
	}
}

func TestAuthSignUpDuplicateEmail(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "sarah@example.com", "correct-horse", "Sarah"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if _, err := auth.SignUp(ctx, "Sarah@Example.com", "other-password", "Imposter"); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthSignOutInvalidatesSession(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	ctx := context.Background()

	if _, err := auth.SignUp(ctx, "sarah@example.com", "correct-horse", "Sarah"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	session, err := auth.SignIn(ctx, "sarah@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	if err := auth.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if _, err := auth.Session(ctx, session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestAuthSessionUnknownToken(t *testing.T) {
	t.Parallel()

	auth, _ := newTestAuth(t, false)
	if _, err := auth.Session(context.Background(), "bogus"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
