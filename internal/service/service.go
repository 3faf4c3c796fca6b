package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUserNotFound      = errors.New("user not found")
	ErrNameTaken         = errors.New("user with this name already exists")
	ErrStorageFailure    = errors.New("storage failure")
	ErrValidationFailure = errors.New("validation failure")
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	*UserService
	*ClaimService
	*LeaderboardService
	*AuditService
	*StatusService
}

func NewService(store Store, roller PointsRoller, environment string) *Service {
	return &Service{
		UserService:        NewUserService(store),
		ClaimService:       NewClaimService(store, roller),
		LeaderboardService: NewLeaderboardService(store),
		AuditService:       NewAuditService(store),
		StatusService:      NewStatusService(store, environment),
	}
}

type UserServiceI interface {
	CreateUser(ctx context.Context, name string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type ClaimServiceI interface {
	Claim(ctx context.Context, userID string) (*model.ClaimResult, error)
	History(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error)
}

type LeaderboardServiceI interface {
	Leaderboard(ctx context.Context) ([]model.RankedUser, error)
}

type AuditServiceI interface {
	Check(ctx context.Context) ([]*model.Discrepancy, error)
}

type StatusServiceI interface {
	Health() model.Health
	Status(ctx context.Context) model.StoreStatus
}

type UserRepository interface {
	CreateUser(ctx context.Context, name string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	ListRankedUsers(ctx context.Context) ([]*model.User, error)
}

type ClaimRepository interface {
	Transaction(ctx context.Context, t func(tx repository.Tx) error) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListClaims(ctx context.Context, filter repository.ClaimFilter) ([]*model.ClaimRecord, int64, error)
}

type LeaderboardRepository interface {
	ListRankedUsers(ctx context.Context) ([]*model.User, error)
}

type AuditRepository interface {
	ListDiscrepancies(ctx context.Context) ([]*model.Discrepancy, error)
}

type StatusRepository interface {
	Ping(ctx context.Context) error
	Driver() string
}

// Store is everything the services need from a ledger backend.
type Store interface {
	UserRepository
	ClaimRepository
	LeaderboardRepository
	AuditRepository
	StatusRepository
}

// PointsRoller draws the award for a claim, uniformly in [min, max].
type PointsRoller interface {
	Roll(min, max int) int
}

type RollerFunc func(min, max int) int

func (f RollerFunc) Roll(min, max int) int {
	return f(min, max)
}

type RandomRoller struct{}

func (RandomRoller) Roll(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user ID format %q", ErrInvalidArgument, raw)
	}
	return id, nil
}

// storeError translates a store error into the service error kinds. Errors
// that already carry a service kind pass through unchanged.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrNameTaken),
		errors.Is(err, ErrStorageFailure),
		errors.Is(err, ErrValidationFailure):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %w", ErrNameTaken, err)
	case errors.Is(err, repository.ErrConstraintViolation):
		return fmt.Errorf("%w: %w", ErrValidationFailure, err)
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
}
