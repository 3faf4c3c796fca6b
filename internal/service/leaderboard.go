package service

import (
	"context"
	"fmt"
	"sort"

	"leaderboard_app/internal/model"
)

type LeaderboardService struct {
	repo LeaderboardRepository
}

func NewLeaderboardService(repo LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{
		repo: repo,
	}
}

func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]model.RankedUser, error) {
	users, err := s.repo.ListRankedUsers(ctx)
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list users: %w", err))
	}
	return Rank(users), nil
}

// Rank orders users by points, then creation time, then id, and assigns
// contiguous 1-based ranks. The input slice is left untouched.
func Rank(users []*model.User) []model.RankedUser {
	sorted := make([]*model.User, len(users))
	copy(sorted, users)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RanksBefore(sorted[j])
	})

	out := make([]model.RankedUser, len(sorted))
	for i, u := range sorted {
		out[i] = model.RankedUser{
			ID:          u.ID,
			Name:        u.Name,
			TotalPoints: u.TotalPoints,
			CreatedAt:   u.CreatedAt,
			Rank:        i + 1,
		}
	}

	return out
}
