package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/models"
	"lifetrack/internal/services"
)

type RewardHandler struct {
	service services.RewardService
	log     *zap.Logger
}

func NewRewardHandler(service services.RewardService, log *zap.Logger) *RewardHandler {
	return &RewardHandler{service: service, log: log}
}

type rewardRequest struct {
	Category           string `json:"category"`
	Name               string `json:"name" binding:"required"`
	BasePrice          int    `json:"base_price" binding:"required"`
	AvailabilityWindow string `json:"availability_window"`
	MaxDailyUse        int    `json:"max_daily_use"`
	RequiresStreak     *int   `json:"requires_streak"`
}

func (r rewardRequest) toModel() *models.Reward {
	return &models.Reward{
		Category:           r.Category,
		Name:               r.Name,
		BasePrice:          r.BasePrice,
		AvailabilityWindow: r.AvailabilityWindow,
		MaxDailyUse:        r.MaxDailyUse,
		RequiresStreak:     r.RequiresStreak,
	}
}

// @Summary      Reward catalog
// @Tags         Rewards
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.Reward
// @Router       /rewards [get]
func (h *RewardHandler) List(c *gin.Context) {
	rewards, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "reward.list", err)
		return
	}
	c.JSON(http.StatusOK, rewards)
}

// @Summary      Create reward (admin)
// @Tags         Rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      rewardRequest  true  "Reward"
// @Success      201   {object}  models.Reward
// @Router       /rewards [post]
func (h *RewardHandler) Create(c *gin.Context) {
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward, err := h.service.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, h.log, "reward.create", err)
		return
	}
	h.log.Info("reward.create", zap.Int64("reward_id", reward.ID), zap.String("name", reward.Name))
	c.JSON(http.StatusCreated, reward)
}

// @Summary      Update reward (admin)
// @Tags         Rewards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Reward id"
// @Param        body  body      rewardRequest  true  "Reward"
// @Success      200   {object}  models.Reward
// @Router       /rewards/{id} [put]
func (h *RewardHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward, err := h.service.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, h.log, "reward.update", err)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// @Summary      Delete reward (admin)
// @Tags         Rewards
// @Security     BearerAuth
// @Param        id  path  int  true  "Reward id"
// @Success      204
// @Router       /rewards/{id} [delete]
func (h *RewardHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "reward.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Redeem reward
// @Description  Spends XP. 409 when the balance, daily limit, streak or availability window does not allow it.
// @Tags         Rewards
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reward id"
// @Success      200  {object}  services.Redemption
// @Failure      409  {object}  map[string]string
// @Router       /rewards/{id}/redeem [post]
func (h *RewardHandler) Redeem(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Redeem(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, "reward.redeem", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
