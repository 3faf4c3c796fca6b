package service

import (
	"context"
	"time"

	"leaderboard_app/internal/model"
	"leaderboard_app/pkg/logger"

	"go.uber.org/zap"
)

type StatusService struct {
	repo        StatusRepository
	environment string
	startedAt   time.Time
	now         func() time.Time
}

func NewStatusService(repo StatusRepository, environment string) *StatusService {
	return &StatusService{
		repo:        repo,
		environment: environment,
		startedAt:   time.Now(),
		now:         time.Now,
	}
}

func (s *StatusService) Health() model.Health {
	now := s.now()
	return model.Health{
		Status:      "ok",
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(s.startedAt),
		Environment: s.environment,
	}
}

func (s *StatusService) Status(ctx context.Context) model.StoreStatus {
	status := model.StoreStatus{
		Store:  model.StoreConnected,
		Driver: s.repo.Driver(),
	}

	err := s.repo.Ping(ctx)
	if err != nil {
		logger.Logger().Warn("store ping failed", zap.Error(err))
		status.Store = model.StoreDisconnected
	}

	return status
}
