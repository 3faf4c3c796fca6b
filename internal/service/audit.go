package service

import (
	"context"
	"fmt"

	"leaderboard_app/internal/model"
	"leaderboard_app/pkg/logger"

	"go.uber.org/zap"
)

type AuditService struct {
	repo AuditRepository
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// Check compares every user's total with the sum of their claims and logs
// each mismatch. It never repairs anything.
func (s *AuditService) Check(ctx context.Context) ([]*model.Discrepancy, error) {
	log := logger.Logger()

	found, err := s.repo.ListDiscrepancies(ctx)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to audit ledger: %w", err))
	}

	for _, d := range found {
		log.Error("ledger discrepancy",
			zap.String("user_id", d.UserID.String()),
			zap.String("name", d.Name),
			zap.Int64("total_points", d.TotalPoints),
			zap.Int64("claimed_points", d.ClaimedPoints),
			zap.Int64("claim_count", d.ClaimCount))
	}

	if len(found) == 0 {
		log.Debug("ledger audit passed")
	}

	return found, nil
}
