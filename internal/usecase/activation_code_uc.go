package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

// CodeUseCase runs code API calls for a session. Any unauthorized answer ends
// the session before the error is returned.
type CodeUseCase interface {
	List(ctx context.Context, sess *model.Session) ([]*model.ActivationCode, error)
	Generate(ctx context.Context, sess *model.Session, req model.GenerateRequest) (string, error)
	Toggle(ctx context.Context, sess *model.Session, id int64) error
	// Delete issues no request unless confirmed is true.
	Delete(ctx context.Context, sess *model.Session, id int64, confirmed bool) error
}

type codeUC struct {
	codes    repository.ActivationCodeRepository
	sessions SessionUseCase
	log      *zerolog.Logger
}

func NewCodeUseCase(codes repository.ActivationCodeRepository, sessions SessionUseCase, logger *zerolog.Logger) *codeUC {
	return &codeUC{codes: codes, sessions: sessions, log: logger}
}

func (uc *codeUC) List(ctx context.Context, sess *model.Session) ([]*model.ActivationCode, error) {
	defer logging.TraceDuration(uc.log, "CodeUC.List")()
	codes, err := uc.codes.List(ctx, sess)
	if err != nil {
		return nil, uc.guard(ctx, sess, err)
	}
	return codes, nil
}

func (uc *codeUC) Generate(ctx context.Context, sess *model.Session, req model.GenerateRequest) (string, error) {
	code, err := uc.codes.Generate(ctx, sess, req)
	if err != nil {
		return "", uc.guard(ctx, sess, err)
	}
	logging.With(ctx, uc.log).Info().Str("code", logging.Redact(code, false)).Msg("activation code generated")
	return code, nil
}

func (uc *codeUC) Toggle(ctx context.Context, sess *model.Session, id int64) error {
	if err := uc.codes.Toggle(ctx, sess, id); err != nil {
		return uc.guard(ctx, sess, err)
	}
	return nil
}

func (uc *codeUC) Delete(ctx context.Context, sess *model.Session, id int64, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	if err := uc.codes.Delete(ctx, sess, id); err != nil {
		return uc.guard(ctx, sess, err)
	}
	logging.With(ctx, uc.log).Info().Int64("code_id", id).Msg("activation code deleted")
	return nil
}

// guard performs the logout transition on unauthorized and passes err through.
func (uc *codeUC) guard(ctx context.Context, sess *model.Session, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		if lerr := uc.sessions.Logout(ctx, sess, LogoutUnauthorized); lerr != nil {
			logging.With(ctx, uc.log).Error().Err(lerr).Msg("logout after unauthorized failed")
		}
	}
	return err
}

// ParseGenerateForm turns raw form values into a request. Blank values become nil.
func ParseGenerateForm(name, days, limit string) (model.GenerateRequest, error) {
	var req model.GenerateRequest
	if n := strings.TrimSpace(name); n != "" {
		req.Name = &n
	}
	d, err := optionalPositive("days", days)
	if err != nil {
		return req, err
	}
	l, err := optionalPositive("usage_limit", limit)
	if err != nil {
		return req, err
	}
	req.Days, req.UsageLimit = d, l
	return req, nil
}

func optionalPositive(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive whole number", domain.ErrInvalidArgument, field)
	}
	return &v, nil
}
