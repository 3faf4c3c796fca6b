package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// CreateUser registers a new display name. Names are compared without regard
// to case; the store's unique index settles races between concurrent creates.
func (s *UserService) CreateUser(ctx context.Context, name string) (*model.User, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetUserByName(ctx, name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeError(fmt.Errorf("failed to look up user by name: %w", err))
	}

	user, err := s.repo.CreateUser(ctx, name)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to create user: %w", err))
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.ListRankedUsers(ctx)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	uid, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, uid)
	if err != nil {
		return nil, storeError(err)
	}

	return user, nil
}

// NormalizeName trims surrounding whitespace and checks the length limits.
// Control characters are rejected since PostgreSQL text cannot hold NUL.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidArgument, model.MaxNameLength)
	}
	if !utf8.ValidString(name) || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: name contains invalid characters", ErrInvalidArgument)
	}
	return name, nil
}
