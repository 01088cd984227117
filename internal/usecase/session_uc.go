package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Logout reasons.
const (
	LogoutManual       = "manual"
	LogoutUnauthorized = "unauthorized"
)

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

// SessionUseCase owns the admin credential. Logout is the only transition that clears it.
type SessionUseCase interface {
	Login(ctx context.Context, token string) (*model.Session, error)
	Resolve(ctx context.Context, id string) (*model.Session, error)
	Logout(ctx context.Context, sess *model.Session, reason string) error
}

type sessionUC struct {
	repo repository.SessionRepository
	now  func() time.Time
	log  *zerolog.Logger
}

func NewSessionUseCase(repo repository.SessionRepository, logger *zerolog.Logger) *sessionUC {
	return &sessionUC{repo: repo, now: time.Now, log: logger}
}

func (s *sessionUC) Login(ctx context.Context, token string) (*model.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrEmptyToken
	}
	sess := &model.Session{ID: ulid.Make().String(), Token: token, CreatedAt: s.now().UTC()}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	metrics.IncSessionEvent("login", "")
	logging.With(logging.WithSessID(ctx, sess.ID), s.log).Info().Msg("admin session started")
	return sess, nil
}

// Resolve returns domain.ErrNoSession when id is empty or unknown.
func (s *sessionUC) Resolve(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, domain.ErrNoSession
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *sessionUC) Logout(ctx context.Context, sess *model.Session, reason string) error {
	if sess == nil {
		return nil
	}
	if err := s.repo.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.IncSessionEvent("logout", reason)
	logging.With(logging.WithSessID(ctx, sess.ID), s.log).Info().Str("reason", reason).Msg("admin session ended")
	return nil
}
