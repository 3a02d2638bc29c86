package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/middleware"
	"lifetrack/internal/models"
	"lifetrack/internal/services"
)

// more tolerant to the stored type (int / int64 / float64 / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID int64, roleID int) {
	if id, ok := getInt64FromCtx(c, middleware.CtxUserID); ok {
		userID = id
	}
	if id, ok := getInt64FromCtx(c, middleware.CtxRoleID); ok {
		roleID = int(id)
	}
	return
}

// parseDay accepts YYYY-MM-DD or "today".
func parseDay(raw string, clock services.Clock) (models.Date, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "today") {
		return clock.Today(), nil
	}
	return models.ParseDate(raw)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// respondError maps service errors to HTTP statuses and logs server faults.
func respondError(c *gin.Context, log *zap.Logger, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefresh),
		errors.Is(err, services.ErrRefreshExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInsufficientXP),
		errors.Is(err, services.ErrDailyLimitReached),
		errors.Is(err, services.ErrStreakRequired),
		errors.Is(err, services.ErrRewardUnavailable):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error(op, zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	log.Info(op, zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
