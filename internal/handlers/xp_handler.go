package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/services"
	"lifetrack/internal/xp"
)

type XPHandler struct {
	service services.XPService
	log     *zap.Logger
}

func NewXPHandler(service services.XPService, log *zap.Logger) *XPHandler {
	return &XPHandler{service: service, log: log}
}

type calculateRequest struct {
	TaskType           string `json:"task_type"`
	Difficulty         string `json:"difficulty"`
	StreakDays         int    `json:"streak_days"`
	TimeOfDay          string `json:"time_of_day"`
	CompletedInSession bool   `json:"completed_in_session"`
	IsWeekend          bool   `json:"is_weekend"`
}

// @Summary      Preview XP
// @Description  Scores a hypothetical completion without recording anything
// @Tags         XP
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      calculateRequest  false  "Calculation input"
// @Success      200   {object}  xp.Calculation
// @Router       /xp/calculate [post]
func (h *XPHandler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StreakDays < 0 {
		req.StreakDays = 0
	}
	in := xp.TaskContext{
		StreakDays:         req.StreakDays,
		CompletedInSession: req.CompletedInSession,
		IsWeekend:          req.IsWeekend,
	}
	if req.TaskType != "" {
		in.TaskType = xp.ParseTaskType(req.TaskType)
	}
	if req.Difficulty != "" {
		in.Difficulty = xp.ParseDifficulty(req.Difficulty)
	}
	if req.TimeOfDay != "" {
		in.TimeOfDay = xp.ParseTimeOfDay(req.TimeOfDay)
	}
	c.JSON(http.StatusOK, h.service.Calculate(in))
}

// @Summary      XP balance and streak
// @Tags         XP
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /xp/balance [get]
func (h *XPHandler) Balance(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	ctx := c.Request.Context()
	balance, err := h.service.Balance(ctx, userID)
	if err != nil {
		respondError(c, h.log, "xp.balance", err)
		return
	}
	streak, err := h.service.Streak(ctx, userID)
	if err != nil {
		respondError(c, h.log, "xp.balance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "streak": streak})
}

// @Summary      XP ledger
// @Tags         XP
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (max 200)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}  models.XPEntry
// @Router       /xp/history [get]
func (h *XPHandler) History(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	entries, err := h.service.History(c.Request.Context(), userID, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, h.log, "xp.history", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Reward earning guide
// @Tags         XP
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]xp.EarningGuide
// @Router       /xp/guide [get]
func (h *XPHandler) Guide(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.EarningGuide())
}

// @Summary      Rewards within reach
// @Description  Rewards costing at most 100 XP more than the current balance
// @Tags         Rewards
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  services.NearEarned
// @Router       /rewards/near [get]
func (h *XPHandler) NearEarned(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	res, err := h.service.NearEarned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, "xp.near", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
