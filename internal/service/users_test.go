package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"
	"leaderboard_app/internal/repository/memory"
	"leaderboard_app/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser(t *testing.T) {
	created := &model.User{ID: uuid.New(), Name: "Dana"}

	tests := []struct {
		name          string
		input         string
		setupMocks    func(store *mocks.MockStore)
		expectedError error
		expectedName  string
	}{
		{
			name:          "Blank name",
			input:         "   ",
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:          "Too long",
			input:         strings.Repeat("z", model.MaxNameLength+1),
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:          "Embedded NUL",
			input:         "a\x00b",
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:          "Embedded tab",
			input:         "Da\tna",
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:          "Invalid UTF-8",
			input:         "Da\xffna",
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:  "Pre-check finds existing name",
			input: "dana",
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByName", mock.Anything, "dana").Return(created, nil)
			},
			expectedError: ErrNameTaken,
		},
		{
			name:  "Store constraint wins a race",
			input: "Dana",
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByName", mock.Anything, "Dana").Return(nil, repository.ErrNotFound)
				store.On("CreateUser", mock.Anything, "Dana").Return(nil, repository.ErrConflict)
			},
			expectedError: ErrNameTaken,
		},
		{
			name:  "Lookup failure",
			input: "Dana",
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByName", mock.Anything, "Dana").Return(nil, errors.New("refused"))
			},
			expectedError: ErrStorageFailure,
		},
		{
			name:  "Trimmed and created",
			input: "  Dana  ",
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByName", mock.Anything, "Dana").Return(nil, repository.ErrNotFound)
				store.On("CreateUser", mock.Anything, "Dana").Return(created, nil)
			},
			expectedName: "Dana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.MockStore{}
			tt.setupMocks(store)

			user, err := NewUserService(store).CreateUser(context.Background(), tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedName, user.Name)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestUserService_CaseInsensitiveConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.New())

	_, err := svc.CreateUser(ctx, "Bob")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "bob")
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestUserService_GetUser(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		input         string
		setupMocks    func(store *mocks.MockStore)
		expectedError error
	}{
		{
			name:          "Malformed id",
			input:         "not-a-valid-id",
			setupMocks:    func(store *mocks.MockStore) {},
			expectedError: ErrInvalidArgument,
		},
		{
			name:  "Unknown",
			input: id.String(),
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:  "Found",
			input: id.String(),
			setupMocks: func(store *mocks.MockStore) {
				store.On("GetUserByID", mock.Anything, id).Return(&model.User{ID: id, Name: "Eve"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.MockStore{}
			tt.setupMocks(store)

			user, err := NewUserService(store).GetUser(context.Background(), tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, user.ID)

			store.AssertExpectations(t)
		})
	}
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewUserService(store)

	for _, name := range []string{"one", "two"} {
		_, err := svc.CreateUser(ctx, name)
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "Not found", in: repository.ErrNotFound, want: ErrUserNotFound},
		{name: "Conflict", in: repository.ErrConflict, want: ErrNameTaken},
		{name: "Constraint", in: repository.ErrConstraintViolation, want: ErrValidationFailure},
		{name: "Invalid input", in: repository.ErrInvalidInput, want: ErrInvalidArgument},
		{name: "Tx conflict", in: repository.ErrTxConflict, want: ErrStorageFailure},
		{name: "Context", in: context.DeadlineExceeded, want: ErrStorageFailure},
		{name: "Already translated", in: ErrValidationFailure, want: ErrValidationFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.in)
		})
	}

	assert.NoError(t, storeError(nil))
}
