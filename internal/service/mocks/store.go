package mocks

import (
	"context"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

// Transaction hands the Tx registered with Return to t, unless an error was
// registered, in which case t is never called.
func (m *MockStore) Transaction(ctx context.Context, t func(tx repository.Tx) error) error {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return err
	}
	return t(args.Get(0).(repository.Tx))
}

func (m *MockStore) CreateUser(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockStore) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockStore) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockStore) ListClaims(ctx context.Context, filter repository.ClaimFilter) ([]*model.ClaimRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ClaimRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) ListDiscrepancies(ctx context.Context) ([]*model.Discrepancy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Discrepancy), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Driver() string {
	args := m.Called()
	return args.String(0)
}

type MockTx struct {
	mock.Mock
}

var _ repository.Tx = (*MockTx)(nil)

func (m *MockTx) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockTx) IncrementUserPoints(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockTx) InsertClaim(ctx context.Context, claim *model.ClaimRecord) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockTx) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
