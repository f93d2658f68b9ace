package mocks

import (
	"context"

	"band-market/internal/data/entity"

	"github.com/stretchr/testify/mock"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *SessionRepository) CleanExpiredSessions(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
