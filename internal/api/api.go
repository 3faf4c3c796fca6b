package api

import (
	"errors"
	"net/http"

	"leaderboard_app/internal/service"
	"leaderboard_app/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register mounts every route under /api and installs the JSON 404 handler.
func Register(router *gin.Engine, svc *service.Service) {
	a := router.Group("/api")
	NewHealthRoutes(a, svc.StatusService)
	NewUserRoutes(a, svc.UserService)
	NewLeaderboardRoutes(a, svc.LeaderboardService)
	NewClaimRoutes(a, svc.ClaimService)

	router.NoRoute(notFound)
	router.NoMethod(notFound)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":  "route not found",
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	})
}

// respondError writes the status that matches err's kind. Server-side failures
// are logged with msg; client errors are not.
func respondError(c *gin.Context, err error, msg string) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Logger().Error(msg,
			zap.Error(err),
			zap.String("path", c.FullPath()))
	}
	c.JSON(status, gin.H{"error": body})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrValidationFailure):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, service.ErrNameTaken):
		return http.StatusConflict, "user with this name already exists"
	case errors.Is(err, service.ErrStorageFailure):
		return http.StatusServiceUnavailable, "storage unavailable, please retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
