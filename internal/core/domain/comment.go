package domain

import "time"

// Comment is a note left by a member on a transaction.
type Comment struct {
	CommentID     string    `json:"commentID"`
	TransactionID string    `json:"transactionID"`
	UserID        string    `json:"userID"`
	UserName      string    `json:"userName"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}
