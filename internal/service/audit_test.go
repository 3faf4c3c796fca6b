package service

import (
	"context"
	"errors"
	"testing"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/service/mocks"
	"leaderboard_app/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditService_Check(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	bad := &model.Discrepancy{UserID: uuid.New(), Name: "drift", TotalPoints: 10, ClaimedPoints: 4, ClaimCount: 1}

	store := &mocks.MockStore{}
	store.On("ListDiscrepancies", mock.Anything).Return([]*model.Discrepancy{bad}, nil).Once()
	store.On("ListDiscrepancies", mock.Anything).Return(nil, nil).Once()
	store.On("ListDiscrepancies", mock.Anything).Return(nil, errors.New("down")).Once()

	svc := NewAuditService(store)

	found, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*model.Discrepancy{bad}, found)

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, "drift", errorLogs[0].ContextMap()["name"])

	found, err = svc.Check(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.Check(context.Background())
	assert.ErrorIs(t, err, ErrStorageFailure)

	store.AssertExpectations(t)
}
