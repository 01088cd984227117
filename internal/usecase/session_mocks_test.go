//go:build !integration

package usecase

import (
	"context"
	"sync"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"
	"activation-admin/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memSessionRepo is an in-memory SessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	saveErr  error
}

var _ repository.SessionRepository = (*memSessionRepo)(nil)

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*model.Session{}}
}

func (m *memSessionRepo) Save(ctx context.Context, sess *model.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sess
	m.sessions[sess.ID] = &cp
	return nil
}

func (m *memSessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// mockCodeRepo records calls and returns canned results.
type mockCodeRepo struct {
	repository.ActivationCodeRepository // Embed interface for forward compatibility

	mu    sync.Mutex
	calls []string

	codes       []*model.ActivationCode
	generated   string
	lastRequest model.GenerateRequest
	err         error
}

func (m *mockCodeRepo) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

func (m *mockCodeRepo) List(ctx context.Context, sess *model.Session) ([]*model.ActivationCode, error) {
	m.record("list")
	if m.err != nil {
		return nil, m.err
	}
	return m.codes, nil
}

func (m *mockCodeRepo) Generate(ctx context.Context, sess *model.Session, req model.GenerateRequest) (string, error) {
	m.record("generate")
	m.lastRequest = req
	if m.err != nil {
		return "", m.err
	}
	return m.generated, nil
}

func (m *mockCodeRepo) Toggle(ctx context.Context, sess *model.Session, id int64) error {
	m.record("toggle")
	return m.err
}

func (m *mockCodeRepo) Delete(ctx context.Context, sess *model.Session, id int64) error {
	m.record("delete")
	return m.err
}
