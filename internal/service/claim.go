package service

import (
	"context"
	"fmt"
	"math"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"
	"leaderboard_app/pkg/logger"

	"go.uber.org/zap"
)

type ClaimService struct {
	repo   ClaimRepository
	roller PointsRoller
}

func NewClaimService(repo ClaimRepository, roller PointsRoller) *ClaimService {
	if roller == nil {
		roller = RandomRoller{}
	}
	return &ClaimService{
		repo:   repo,
		roller: roller,
	}
}

// Claim awards a random bonus to the user, appends it to the history and
// returns the standings read back inside the same transaction.
func (s *ClaimService) Claim(ctx context.Context, userID string) (*model.ClaimResult, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	var result *model.ClaimResult
	err = s.repo.Transaction(ctx, func(tx repository.Tx) error {
		user, err := tx.GetUserForUpdate(ctx, id)
		if err != nil {
			return err
		}

		awarded := s.roller.Roll(model.MinClaimPoints, model.MaxClaimPoints)
		if awarded < model.MinClaimPoints || awarded > model.MaxClaimPoints {
			return fmt.Errorf("%w: awarded %d is outside [%d, %d]",
				ErrValidationFailure, awarded, model.MinClaimPoints, model.MaxClaimPoints)
		}

		err = tx.IncrementUserPoints(ctx, id, awarded)
		if err != nil {
			return err
		}

		claim := &model.ClaimRecord{
			UserID:   id,
			UserName: user.Name,
			Points:   awarded,
		}
		err = tx.InsertClaim(ctx, claim)
		if err != nil {
			return err
		}

		users, err := tx.ListRankedUsers(ctx)
		if err != nil {
			return err
		}

		result = &model.ClaimResult{
			Awarded:     awarded,
			UserName:    user.Name,
			Claim:       *claim,
			Leaderboard: Rank(users),
		}

		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	logger.Logger().Debug("points claimed",
		zap.String("user_id", id.String()),
		zap.Int("awarded", result.Awarded))

	return result, nil
}

// History returns one page of claim records, newest first.
func (s *ClaimService) History(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error) {
	if q.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrInvalidArgument)
	}
	if q.PageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be at least 1", ErrInvalidArgument)
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if int64(q.Page-1) > math.MaxInt64/int64(q.PageSize) {
		return nil, fmt.Errorf("%w: page %d is out of range", ErrInvalidArgument, q.Page)
	}

	filter := repository.ClaimFilter{
		Limit:  uint64(q.PageSize),
		Offset: uint64(q.Page-1) * uint64(q.PageSize),
	}

	if q.UserID != "" {
		id, err := parseUserID(q.UserID)
		if err != nil {
			return nil, err
		}

		_, err = s.repo.GetUserByID(ctx, id)
		if err != nil {
			return nil, storeError(err)
		}

		filter.UserID = &id
	}

	records, total, err := s.repo.ListClaims(ctx, filter)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list claims: %w", err))
	}

	return &model.HistoryPage{
		Records:    records,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
