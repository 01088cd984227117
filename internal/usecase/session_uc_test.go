//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"

	"activation-admin/internal/domain"
)

func TestSessionUseCase_LoginResolveLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemSessionRepo()
	uc := NewSessionUseCase(repo, newTestLogger())

	sess, err := uc.Login(ctx, "  secret  ")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.ID == "" || sess.Token != "secret" {
		t.Fatalf("unexpected session %+v", sess)
	}

	got, err := uc.Resolve(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Token != "secret" {
		t.Fatalf("expected token %q got %q", "secret", got.Token)
	}

	if err := uc.Logout(ctx, got, LogoutManual); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := uc.Resolve(ctx, sess.ID); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestSessionUseCase_EmptyToken(t *testing.T) {
	t.Parallel()

	uc := NewSessionUseCase(newMemSessionRepo(), newTestLogger())
	for _, tok := range []string{"", "   "} {
		if _, err := uc.Login(context.Background(), tok); !errors.Is(err, domain.ErrEmptyToken) {
			t.Errorf("Login(%q) err = %v, want ErrEmptyToken", tok, err)
		}
	}
}

func TestSessionUseCase_ResolveUnknown(t *testing.T) {
	t.Parallel()

	uc := NewSessionUseCase(newMemSessionRepo(), newTestLogger())
	for _, id := range []string{"", "does-not-exist"} {
		if _, err := uc.Resolve(context.Background(), id); !errors.Is(err, domain.ErrNoSession) {
			t.Errorf("Resolve(%q) err = %v, want ErrNoSession", id, err)
		}
	}
}

func TestSessionUseCase_SaveFailure(t *testing.T) {
	t.Parallel()

	repo := newMemSessionRepo()
	repo.saveErr = errors.New("redis down")
	uc := NewSessionUseCase(repo, newTestLogger())
	if _, err := uc.Login(context.Background(), "tok"); err == nil {
		t.Fatal("expected error when the store fails")
	}
}

func TestSessionUseCase_LogoutNil(t *testing.T) {
	t.Parallel()

	uc := NewSessionUseCase(newMemSessionRepo(), newTestLogger())
	if err := uc.Logout(context.Background(), nil, LogoutManual); err != nil {
		t.Fatalf("Logout(nil) = %v", err)
	}
}
