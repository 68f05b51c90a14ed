package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// settlementHandler handles balances, reports and statements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
	posthogClient     *utils.PosthogClientWrapper
	now               func() time.Time
}

// RegisterSettlementRoutes registers the balance and report routes on a
// /groups/:group_id router group. posthogClient may be nil.
func RegisterSettlementRoutes(group *gin.RouterGroup, ss portssvc.SettlementSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := &settlementHandler{settlementService: ss, posthogClient: posthogClient, now: time.Now}

	group.GET("/balance", h.getBalance)
	group.GET("/report", h.getReport)
	group.GET("/statement.pdf", h.getStatementPDF)
}

// getBalance godoc
// @Summary My balance
// @Description Returns the caller's settlement balance in the group with the transactions behind it. Positive means the caller is owed money.
// @Tags settlement
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} domain.BalanceBreakdown
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/balance [get]
func (h *settlementHandler) getBalance(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	balance, err := h.settlementService.GetBalance(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getReport godoc
// @Summary Spending report
// @Description Summarises the last 30 days of expenses and adds a written analysis.
// @Tags settlement
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} domain.FinancialReport
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/report [get]
func (h *settlementHandler) getReport(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	groupID := c.Param("group_id")
	report, err := h.settlementService.GenerateReport(c.Request.Context(), groupID, userID, h.now())
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "report_generated", map[string]any{
		"group_id":    groupID,
		"total_spent": report.Summary.TotalSpent,
	})
	c.JSON(http.StatusOK, report)
}

// getStatementPDF godoc
// @Summary Balance statement
// @Description Renders the caller's balance breakdown as a PDF document.
// @Tags settlement
// @Produce application/pdf
// @Param group_id path string true "Group ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/statement.pdf [get]
func (h *settlementHandler) getStatementPDF(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	now := h.now()
	pdf, err := h.settlementService.RenderStatementPDF(c.Request.Context(), c.Param("group_id"), userID, now)
	if err != nil {
		respondError(c, err, "Failed to render statement")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Statement rendered", slog.Int("bytes", len(pdf)))
	filename := "estado-de-cuenta-" + now.Format(time.DateOnly) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
