package dto

// ParseTransactionRequest carries a free-text description of a transaction.
type ParseTransactionRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}
