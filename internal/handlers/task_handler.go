package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/models"
	"lifetrack/internal/services"
)

type TaskHandler struct {
	service services.DailyTaskService
	clock   services.Clock
	log     *zap.Logger
}

func NewTaskHandler(service services.DailyTaskService, clock services.Clock, log *zap.Logger) *TaskHandler {
	return &TaskHandler{service: service, clock: clock, log: log}
}

// @Summary      Create task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTaskRequest  true  "Task"
// @Success      201   {object}  models.DailyTask
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, "task.create", err)
		return
	}
	h.log.Info("task.create", zap.Int64("user_id", userID), zap.String("task_id", task.ID))
	c.JSON(http.StatusCreated, task)
}

// @Summary      List tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        from       query  string  false  "YYYY-MM-DD"
// @Param        to         query  string  false  "YYYY-MM-DD"
// @Param        completed  query  bool    false  "Completion filter"
// @Success      200  {array}  models.DailyTask
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	filter := models.TaskFilter{UserID: userID}
	for key, dst := range map[string]**models.Date{"from": &filter.From, "to": &filter.To} {
		if raw := c.Query(key); raw != "" {
			d, err := parseDay(raw, h.clock)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			*dst = &d
		}
	}
	if raw := c.Query("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed"})
			return
		}
		filter.Completed = &b
	}
	tasks, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, "task.list", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  models.DailyTask
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	task, err := h.service.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, "task.get", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update task
// @Description  Edits title, description, work type, priority or estimate. Scheduling fields are not editable.
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Task id"
// @Param        body  body      models.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  models.DailyTask
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, "task.update", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete task
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      204
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, "task.delete", err)
		return
	}
	h.log.Info("task.delete", zap.Int64("user_id", userID), zap.String("task_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// @Summary      Tasks for a day
// @Description  Returns the day list. Unfinished tasks from earlier days are carried over to it.
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        date  path      string  true  "YYYY-MM-DD or today"
// @Success      200   {object}  rollover.Result
// @Router       /tasks/day/{date} [get]
func (h *TaskHandler) ForDate(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	date, err := parseDay(c.Param("date"), h.clock)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.ForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, h.log, "task.day", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Toggle completion
// @Description  Completing awards XP, reopening revokes it.
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true   "Task id"
// @Param        body  body      models.ToggleTaskRequest  false  "Scoring overrides"
// @Success      200   {object}  services.ToggleResult
// @Router       /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req models.ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.Toggle(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, "task.toggle", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
