package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles a user's own financial accounts.
type accountHandler struct {
	accountService portssvc.FinancialAccountSvcFacade
}

// RegisterAccountRoutes registers routes related to financial accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.FinancialAccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
	}
}

// createAccount godoc
// @Summary Create a financial account
// @Description Tracks a bank account, card, cash or investment for the caller.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateFinancialAccountRequest true "Account details"
// @Success 201 {object} dto.FinancialAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFinancialAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}

	account, err := h.accountService.CreateFinancialAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToFinancialAccountResponse(account))
}

// listAccounts godoc
// @Summary List my financial accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.FinancialAccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	accounts, err := h.accountService.ListFinancialAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialAccountResponses(accounts))
}
