package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/models"
	"lifetrack/internal/services"
)

type UserHandler struct {
	userService services.UserService
	log         *zap.Logger
}

func NewUserHandler(userService services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// @Summary      Current user
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.User
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, "user.me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Update notification settings
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.NotificationSettings  true  "Settings; omitted fields stay unchanged"
// @Success      200   {object}  models.User
// @Router       /me/notifications [put]
func (h *UserHandler) UpdateNotifications(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req models.NotificationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateNotifications(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, "user.notifications", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      List users (admin)
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := h.userService.ListUsers(ctx, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, h.log, "user.list", err)
		return
	}
	total, err := h.userService.GetUserCount(ctx)
	if err != nil {
		respondError(c, h.log, "user.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}
