package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifetrack/internal/services"
)

type ReportHandler struct {
	Service services.ReportService
	clock   services.Clock
	log     *zap.Logger
}

func NewReportHandler(service services.ReportService, clock services.Clock, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Service: service, clock: clock, log: log}
}

// @Summary      Day report
// @Tags         Reports
// @Security     BearerAuth
// @Produce      json
// @Param        date  path      string  true  "YYYY-MM-DD or today"
// @Success      200   {object}  models.DayReport
// @Router       /reports/day/{date} [get]
func (h *ReportHandler) Day(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	date, err := parseDay(c.Param("date"), h.clock)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.Service.Day(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, h.log, "report.day", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Day report as PDF
// @Tags         Reports
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        date  path  string  true  "YYYY-MM-DD or today"
// @Success      200
// @Router       /reports/day/{date}/pdf [get]
func (h *ReportHandler) DayPDF(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	date, err := parseDay(c.Param("date"), h.clock)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := h.Service.DayPDF(c.Request.Context(), &buf, userID, date); err != nil {
		respondError(c, h.log, "report.pdf", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="day-%s.pdf"`, date))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
