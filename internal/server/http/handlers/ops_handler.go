package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meridianshop/paygate/internal/domain/model"
	"github.com/meridianshop/paygate/internal/server/http/dto"
)

const defaultOpsLimit = 50

// OpsHandler exposes read-only operational endpoints for staff tooling.
type OpsHandler struct {
	facade OpsFacade
}

// NewOpsHandler constructs OpsHandler.
func NewOpsHandler(facade OpsFacade) *OpsHandler {
	return &OpsHandler{facade: facade}
}

// Alerts handles GET /api/ops/alerts.
func (h *OpsHandler) Alerts(c *gin.Context) {
	alerts, err := h.facade.RecentAlerts(c.Request.Context(), limitParam(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		response = append(response, toAlertResponse(a))
	}
	c.JSON(http.StatusOK, response)
}

// FailedNotifications handles GET /api/ops/failed-notifications.
func (h *OpsHandler) FailedNotifications(c *gin.Context) {
	records, err := h.facade.PendingNotifications(c.Request.Context(), limitParam(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.FailedNotificationResponse, 0, len(records))
	for _, r := range records {
		response = append(response, toFailedNotificationResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// Health handles GET /api/ops/health.
func (h *OpsHandler) Health(c *gin.Context) {
	if err := h.facade.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded"})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func limitParam(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultOpsLimit
}

func toAlertResponse(a model.OperatorAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:        a.ID,
		Type:      string(a.Type),
		Title:     a.Title,
		Message:   a.Message,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

func toFailedNotificationResponse(r model.FailedNotification) dto.FailedNotificationResponse {
	return dto.FailedNotificationResponse{
		ID:           r.ID,
		Type:         string(r.Type),
		OrderID:      r.OrderID,
		Recipient:    r.Recipient,
		ErrorMessage: r.ErrorMessage,
		Status:       string(r.Status),
		Attempts:     r.Attempts,
		Metadata:     r.Metadata,
		CreatedAt:    r.CreatedAt,
	}
}
