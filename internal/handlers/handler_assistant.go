package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type assistantHandler struct {
	assistantService portssvc.AssistantSvcFacade
}

// RegisterAssistantRoutes registers the natural-language routes on a
// /groups/:group_id router group.
func RegisterAssistantRoutes(group *gin.RouterGroup, as portssvc.AssistantSvcFacade) {
	h := &assistantHandler{assistantService: as}
	group.POST("/ai/parse", h.parseTransaction)
}

// parseTransaction godoc
// @Summary Parse a transaction from text
// @Description Reads a free-text message and returns the transaction it describes, without saving it.
// @Tags assistant
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param text body dto.ParseTransactionRequest true "Message"
// @Success 200 {object} domain.ParsedTransaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/ai/parse [post]
func (h *assistantHandler) parseTransaction(c *gin.Context) {
	var req dto.ParseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	parsed, err := h.assistantService.ParseTransaction(c.Request.Context(), c.Param("group_id"), userID, req.Text)
	if err != nil {
		respondError(c, err, "Failed to parse transaction")
		return
	}
	c.JSON(http.StatusOK, parsed)
}
