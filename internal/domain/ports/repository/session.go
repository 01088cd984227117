package repository

import (
	"context"

	"activation-admin/internal/domain/model"
)

// SessionRepository persists admin sessions. Get returns domain.ErrNotFound for unknown ids.
type SessionRepository interface {
	Save(ctx context.Context, sess *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}
