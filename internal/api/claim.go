package api

import (
	"net/http"
	"strconv"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/service"
	"leaderboard_app/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type claimRoutes struct {
	cs service.ClaimServiceI
}

func NewClaimRoutes(handler *gin.RouterGroup, cs service.ClaimServiceI) {
	r := &claimRoutes{cs: cs}
	h := handler.Group("/claim")
	{
		h.POST("", r.Claim)
		h.GET("/history", r.GetHistory)
		h.GET("/history/:userId", r.GetUserHistory)
	}
}

type claimRequest struct {
	UserID string `json:"userId"`
}

type claimRecordResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Points    int    `json:"points"`
	ClaimedAt string `json:"claimedAt"`
}

type claimResponse struct {
	Awarded     int                  `json:"awarded"`
	User        string               `json:"user"`
	Claim       claimRecordResponse  `json:"claim"`
	Leaderboard []rankedUserResponse `json:"leaderboard"`
}

type historyResponse struct {
	History     []claimRecordResponse `json:"history"`
	Total       int64                 `json:"total"`
	TotalPages  int                   `json:"totalPages"`
	CurrentPage int                   `json:"currentPage"`
	PageSize    int                   `json:"pageSize"`
}

func toClaimRecordResponse(c *model.ClaimRecord) claimRecordResponse {
	return claimRecordResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		UserName:  c.UserName,
		Points:    c.Points,
		ClaimedAt: c.ClaimedAt.Format(timeLayout),
	}
}

func (r *claimRoutes) Claim(c *gin.Context) {
	log := logger.Logger()

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	res, err := r.cs.Claim(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err, "failed to process claim")
		return
	}

	c.JSON(http.StatusOK, claimResponse{
		Awarded:     res.Awarded,
		User:        res.UserName,
		Claim:       toClaimRecordResponse(&res.Claim),
		Leaderboard: toRankedResponse(res.Leaderboard),
	})
}

func (r *claimRoutes) GetHistory(c *gin.Context) {
	r.history(c, "")
}

func (r *claimRoutes) GetUserHistory(c *gin.Context) {
	r.history(c, c.Param("userId"))
}

func (r *claimRoutes) history(c *gin.Context, userID string) {
	page, err := intQuery(c, "page", service.DefaultPage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	limit, err := intQuery(c, "limit", service.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	out, err := r.cs.History(c.Request.Context(), model.HistoryQuery{
		UserID:   userID,
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		respondError(c, err, "failed to fetch claim history")
		return
	}

	records := make([]claimRecordResponse, len(out.Records))
	for i, rec := range out.Records {
		records[i] = toClaimRecordResponse(rec)
	}

	c.JSON(http.StatusOK, historyResponse{
		History:     records,
		Total:       out.Total,
		TotalPages:  out.TotalPages,
		CurrentPage: out.Page,
		PageSize:    out.PageSize,
	})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
