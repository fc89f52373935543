package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/server/http/dto"
)

// UserHandler serves the caller's profile and role management.
type UserHandler struct {
	facade UserFacade
	logger *slog.Logger
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserFacade, logger *slog.Logger) *UserHandler {
	return &UserHandler{facade: facade, logger: logger}
}

// Get handles GET /api/user and GET /api/user/profile.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentCaller(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// SaveProfile handles PUT /api/user/profile.
func (h *UserHandler) SaveProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed profile payload")
		return
	}
	user, err := h.facade.SaveProfile(c.Request.Context(), CurrentCaller(c), req.Name, req.Email, req.Avatar)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// SetRole handles POST /api/users/role.
func (h *UserHandler) SetRole(c *gin.Context) {
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed role payload")
		return
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if err := h.facade.SetRole(c.Request.Context(), CurrentCaller(c), req.UserID, role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.RoleRequest{UserID: req.UserID, Role: string(role)})
}

func toUserResponse(user model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
