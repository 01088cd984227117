package repository

import (
	"context"

	"activation-admin/internal/domain/model"
)

// ActivationCodeRepository is the port for the remote activation code API.
// Every method is a single round trip authenticated with the session's token.
type ActivationCodeRepository interface {
	// List returns all codes in server order.
	List(ctx context.Context, sess *model.Session) ([]*model.ActivationCode, error)
	// Generate creates a code and returns its token.
	Generate(ctx context.Context, sess *model.Session, req model.GenerateRequest) (string, error)
	// Toggle flips the active flag server-side.
	Toggle(ctx context.Context, sess *model.Session, id int64) error
	// Delete removes a code.
	Delete(ctx context.Context, sess *model.Session, id int64) error
}
