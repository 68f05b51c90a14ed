package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// recurringHandler handles monthly payment templates.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
	now              func() time.Time
}

// RegisterRecurringRoutes registers the template routes on a
// /groups/:group_id router group.
func RegisterRecurringRoutes(group *gin.RouterGroup, rs portssvc.RecurringSvcFacade) {
	h := &recurringHandler{recurringService: rs, now: time.Now}

	recurring := group.Group("/recurring")
	{
		recurring.POST("", h.createTemplate)
		recurring.GET("", h.listTemplates)
		recurring.POST("/run", h.runDueTemplates)
		recurring.PUT("/:template_id", h.updateTemplate)
		recurring.DELETE("/:template_id", h.deactivateTemplate)
		recurring.POST("/:template_id/confirm", h.confirmPayment)
	}
}

// createTemplate godoc
// @Summary Create a recurring payment
// @Description Creates a monthly template. Its first run is this month's dayOfMonth, or next month's if that day has passed.
// @Tags recurring
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param template body dto.CreateRecurringTemplateRequest true "Template"
// @Success 201 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/recurring [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	var req dto.CreateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	tmpl, err := h.recurringService.CreateTemplate(c.Request.Context(), c.Param("group_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create recurring template")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringTemplateResponse(tmpl))
}

// listTemplates godoc
// @Summary List recurring payments
// @Tags recurring
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.RecurringTemplateResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/recurring [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	templates, err := h.recurringService.ListTemplates(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list recurring templates")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponses(templates))
}

// updateTemplate godoc
// @Summary Update a recurring payment
// @Tags recurring
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param template_id path string true "Template ID"
// @Param template body dto.UpdateRecurringTemplateRequest true "Changes"
// @Success 200 {object} dto.RecurringTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/recurring/{template_id} [put]
func (h *recurringHandler) updateTemplate(c *gin.Context) {
	var req dto.UpdateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	tmpl, err := h.recurringService.UpdateTemplate(c.Request.Context(), c.Param("group_id"), c.Param("template_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update recurring template")
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringTemplateResponse(tmpl))
}

// deactivateTemplate godoc
// @Summary Stop a recurring payment
// @Description Deactivates the template. Transactions already raised are kept.
// @Tags recurring
// @Param group_id path string true "Group ID"
// @Param template_id path string true "Template ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/recurring/{template_id} [delete]
func (h *recurringHandler) deactivateTemplate(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.recurringService.DeactivateTemplate(c.Request.Context(), c.Param("group_id"), c.Param("template_id"), userID); err != nil {
		respondError(c, err, "Failed to deactivate recurring template")
		return
	}
	c.Status(http.StatusNoContent)
}

// confirmPayment godoc
// @Summary Pay a recurring payment now
// @Description Records the template's payment as a completed expense and moves it to the next month.
// @Tags recurring
// @Produce json
// @Param group_id path string true "Group ID"
// @Param template_id path string true "Template ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Inactive or already advanced"
// @Security BearerAuth
// @Router /groups/{group_id}/recurring/{template_id}/confirm [post]
func (h *recurringHandler) confirmPayment(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txn, err := h.recurringService.ConfirmRecurringPayment(c.Request.Context(), c.Param("group_id"), c.Param("template_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to confirm recurring payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// runDueTemplates godoc
// @Summary Raise due payments now
// @Description Creates the pending transactions and alerts of every due template. Requires ADMIN.
// @Tags recurring
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} dto.ProcessDueTemplatesResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/recurring/run [post]
func (h *recurringHandler) runDueTemplates(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	created, err := h.recurringService.RunDueTemplates(c.Request.Context(), c.Param("group_id"), userID, h.now())
	if err != nil {
		respondError(c, err, "Failed to process recurring templates")
		return
	}
	c.JSON(http.StatusOK, dto.ProcessDueTemplatesResponse{Created: created})
}
