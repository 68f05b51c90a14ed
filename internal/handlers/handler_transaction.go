package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles transactions, their comments and split previews.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	commentService     portssvc.CommentSvcFacade
}

// RegisterTransactionRoutes registers the transaction routes on a
// /groups/:group_id router group.
func RegisterTransactionRoutes(group *gin.RouterGroup, ts portssvc.TransactionSvcFacade, cs portssvc.CommentSvcFacade) {
	h := &transactionHandler{transactionService: ts, commentService: cs}

	group.POST("/splits/preview", h.previewSplits)

	txns := group.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/pending", h.listPendingTransactions)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.PUT("/:transaction_id", h.updateTransaction)
		txns.DELETE("/:transaction_id", h.deleteTransaction)
		txns.POST("/:transaction_id/confirm", h.confirmTransaction)
		txns.GET("/:transaction_id/comments", h.listComments)
		txns.POST("/:transaction_id/comments", h.addComment)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Records a completed transaction. Splits are taken from the request or derived from splitPolicy over the current members.
// @Tags transactions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), c.Param("group_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the group's transactions, newest first, one page at a time.
// @Tags transactions
// @Produce json
// @Param group_id path string true "Group ID"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	res, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("group_id"), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, res)
}

// listPendingTransactions godoc
// @Summary List pending transactions
// @Description Lists transactions raised by recurring templates that still need confirmation.
// @Tags transactions
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/pending [get]
func (h *transactionHandler) listPendingTransactions(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txns, err := h.transactionService.ListPendingTransactions(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces the editable fields and the splits of a transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Transaction"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// confirmTransaction godoc
// @Summary Confirm a pending transaction
// @Description Completes a pending transaction, optionally correcting the amount. It is split equally unless splitPolicy says otherwise.
// @Tags transactions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Param confirm body dto.ConfirmTransactionRequest false "Confirmation"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not pending"
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id}/confirm [post]
func (h *transactionHandler) confirmTransaction(c *gin.Context) {
	var req dto.ConfirmTransactionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.ConfirmPendingTransaction(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to confirm transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// previewSplits godoc
// @Summary Preview a split
// @Description Shows how an amount would be divided between the current members.
// @Tags transactions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param preview body dto.SplitPreviewRequest true "Amount and policy"
// @Success 200 {object} dto.SplitPreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/splits/preview [post]
func (h *transactionHandler) previewSplits(c *gin.Context) {
	var req dto.SplitPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	splits, err := h.transactionService.PreviewSplits(c.Request.Context(), c.Param("group_id"), userID, req.Amount, req.SplitPolicy)
	if err != nil {
		respondError(c, err, "Failed to preview splits")
		return
	}
	c.JSON(http.StatusOK, dto.SplitPreviewResponse{Splits: dto.ToSplitResponses(splits)})
}

// listComments godoc
// @Summary List comments
// @Tags transactions
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {array} dto.CommentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id}/comments [get]
func (h *transactionHandler) listComments(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	comments, err := h.commentService.ListComments(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list comments")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommentResponses(comments))
}

// addComment godoc
// @Summary Comment on a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param transaction_id path string true "Transaction ID"
// @Param comment body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/transactions/{transaction_id}/comments [post]
func (h *transactionHandler) addComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	comment, err := h.commentService.AddComment(c.Request.Context(), c.Param("group_id"), c.Param("transaction_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentResponse(comment))
}
