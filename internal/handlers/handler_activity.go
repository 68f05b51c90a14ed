package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// activityHandler serves alerts and the audit log.
type activityHandler struct {
	alertService portssvc.AlertSvcFacade
	auditService portssvc.AuditSvcFacade
}

// RegisterActivityRoutes registers alert and audit routes on a
// /groups/:group_id router group.
func RegisterActivityRoutes(group *gin.RouterGroup, as portssvc.AlertSvcFacade, audit portssvc.AuditSvcFacade) {
	h := &activityHandler{alertService: as, auditService: audit}

	group.GET("/alerts", h.listAlerts)
	group.POST("/alerts/:alert_id/read", h.markAlertRead)
	group.GET("/audit-logs", h.listAuditLogs)
}

// listAlerts godoc
// @Summary Unread alerts
// @Tags activity
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.AlertResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/alerts [get]
func (h *activityHandler) listAlerts(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	alerts, err := h.alertService.ListUnreadAlerts(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list alerts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAlertResponses(alerts))
}

// markAlertRead godoc
// @Summary Mark an alert read
// @Tags activity
// @Param group_id path string true "Group ID"
// @Param alert_id path string true "Alert ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/alerts/{alert_id}/read [post]
func (h *activityHandler) markAlertRead(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.alertService.MarkAlertRead(c.Request.Context(), c.Param("group_id"), c.Param("alert_id"), userID); err != nil {
		respondError(c, err, "Failed to mark alert read")
		return
	}
	c.Status(http.StatusNoContent)
}

// listAuditLogs godoc
// @Summary Audit log
// @Description Returns the 50 newest changes made in the group.
// @Tags activity
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.AuditLogResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/audit-logs [get]
func (h *activityHandler) listAuditLogs(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	logs, err := h.auditService.ListAuditLogs(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogResponses(logs))
}
