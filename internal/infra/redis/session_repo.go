package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// Sealer encrypts credentials before they are written.
type Sealer interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// sessionRecord is the stored form; the credential lives under model.CredentialKey.
type sessionRecord struct {
	Token     string    `json:"ADMIN_TOKEN"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRepo keeps admin sessions in Redis. Sessions expire ttl after Save.
type SessionRepo struct {
	client RedisClient
	sealer Sealer
	ttl    time.Duration
}

func NewSessionRepo(client RedisClient, sealer Sealer, ttl time.Duration) *SessionRepo {
	return &SessionRepo{client: client, sealer: sealer, ttl: ttl}
}

func (r *SessionRepo) sessionKey(id string) string {
	return fmt.Sprintf("admin_session:%s", id)
}

func (r *SessionRepo) Save(ctx context.Context, sess *model.Session) error {
	sealed, err := r.sealer.Encrypt(sess.Token)
	if err != nil {
		return fmt.Errorf("seal %s: %w", model.CredentialKey, err)
	}
	data, err := json.Marshal(sessionRecord{Token: sealed, CreatedAt: sess.CreatedAt})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.sessionKey(sess.ID), data, r.ttl)
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	token, err := r.sealer.Decrypt(rec.Token)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", model.CredentialKey, err)
	}
	return &model.Session{ID: id, Token: token, CreatedAt: rec.CreatedAt}, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.sessionKey(id))
}
