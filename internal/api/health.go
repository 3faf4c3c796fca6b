package api

import (
	"net/http"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/service"

	"github.com/gin-gonic/gin"
)

type healthRoutes struct {
	ss service.StatusServiceI
}

func NewHealthRoutes(handler *gin.RouterGroup, ss service.StatusServiceI) {
	r := &healthRoutes{ss: ss}
	handler.GET("", r.Index)
	handler.GET("/health", r.Health)
	handler.GET("/status", r.Status)
}

type healthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

type statusResponse struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
}

func (r *healthRoutes) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Leaderboard API",
		"endpoints": []string{
			"GET /api/health",
			"GET /api/status",
			"GET /api/users",
			"POST /api/users",
			"GET /api/users/:id",
			"GET /api/leaderboard",
			"POST /api/claim",
			"GET /api/claim/history",
			"GET /api/claim/history/:userId",
		},
	})
}

func (r *healthRoutes) Health(c *gin.Context) {
	h := r.ss.Health()
	c.JSON(http.StatusOK, healthResponse{
		Status:      h.Status,
		Timestamp:   h.Timestamp.Format(timeLayout),
		Uptime:      h.Uptime.Seconds(),
		Environment: h.Environment,
	})
}

func (r *healthRoutes) Status(c *gin.Context) {
	s := r.ss.Status(c.Request.Context())

	code := http.StatusOK
	if s.Store != model.StoreConnected {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, statusResponse{
		Database: s.Store,
		Driver:   s.Driver,
	})
}
