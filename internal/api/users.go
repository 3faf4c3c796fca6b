package api

import (
	"net/http"
	"time"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/service"
	"leaderboard_app/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timeLayout = time.RFC3339Nano

type userRoutes struct {
	us service.UserServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI) {
	r := &userRoutes{us: us}
	h := handler.Group("/users")
	{
		h.GET("", r.ListUsers)
		h.POST("", r.CreateUser)
		h.GET("/:id", r.GetUser)
	}
}

type createUserRequest struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int64  `json:"totalPoints"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		TotalPoints: u.TotalPoints,
		CreatedAt:   u.CreatedAt.Format(timeLayout),
		UpdatedAt:   u.UpdatedAt.Format(timeLayout),
	}
}

func (r *userRoutes) ListUsers(c *gin.Context) {
	users, err := r.us.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}

	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) CreateUser(c *gin.Context) {
	log := logger.Logger()

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "failed to create user")
		return
	}

	log.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("name", user.Name))

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (r *userRoutes) GetUser(c *gin.Context) {
	user, err := r.us.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
