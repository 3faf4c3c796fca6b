package api

import (
	"net/http"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/service"

	"github.com/gin-gonic/gin"
)

type leaderboardRoutes struct {
	ls service.LeaderboardServiceI
}

func NewLeaderboardRoutes(handler *gin.RouterGroup, ls service.LeaderboardServiceI) {
	r := &leaderboardRoutes{ls: ls}
	handler.GET("/leaderboard", r.GetLeaderboard)
}

type rankedUserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int64  `json:"totalPoints"`
	CreatedAt   string `json:"createdAt"`
	Rank        int    `json:"rank"`
}

func toRankedResponse(ranked []model.RankedUser) []rankedUserResponse {
	out := make([]rankedUserResponse, len(ranked))
	for i, u := range ranked {
		out[i] = rankedUserResponse{
			ID:          u.ID.String(),
			Name:        u.Name,
			TotalPoints: u.TotalPoints,
			CreatedAt:   u.CreatedAt.Format(timeLayout),
			Rank:        u.Rank,
		}
	}
	return out
}

func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	ranked, err := r.ls.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch leaderboard")
		return
	}

	c.JSON(http.StatusOK, toRankedResponse(ranked))
}
