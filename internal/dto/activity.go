package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// AlertResponse defines data returned for an alert.
type AlertResponse struct {
	AlertID   string    `json:"alertID"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToAlertResponses converts alerts to DTO.
func ToAlertResponses(as []domain.Alert) []AlertResponse {
	res := make([]AlertResponse, len(as))
	for i, a := range as {
		res[i] = AlertResponse{
			AlertID:   a.AlertID,
			Title:     a.Title,
			Message:   a.Message,
			IsRead:    a.IsRead,
			CreatedAt: a.CreatedAt,
		}
	}
	return res
}

// AuditLogResponse defines data returned for an audit entry.
type AuditLogResponse struct {
	AuditID    string             `json:"auditID"`
	EntityType string             `json:"entityType"`
	EntityID   string             `json:"entityID"`
	Action     domain.AuditAction `json:"action"`
	Before     json.RawMessage    `json:"before,omitempty"`
	After      json.RawMessage    `json:"after,omitempty"`
	UserID     string             `json:"userID"`
	ChangedAt  time.Time          `json:"changedAt"`
}

// ToAuditLogResponses converts audit entries to DTO.
func ToAuditLogResponses(ls []domain.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, len(ls))
	for i, l := range ls {
		res[i] = AuditLogResponse{
			AuditID:    l.AuditID,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     l.Action,
			Before:     l.Before,
			After:      l.After,
			UserID:     l.UserID,
			ChangedAt:  l.ChangedAt,
		}
	}
	return res
}

// CreateCommentRequest adds a comment to a transaction.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentResponse defines data returned for a comment.
type CommentResponse struct {
	CommentID     string    `json:"commentID"`
	TransactionID string    `json:"transactionID"`
	UserID        string    `json:"userID"`
	UserName      string    `json:"userName"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToCommentResponse converts domain.Comment to DTO.
func ToCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		CommentID:     c.CommentID,
		TransactionID: c.TransactionID,
		UserID:        c.UserID,
		UserName:      c.UserName,
		Content:       c.Content,
		CreatedAt:     c.CreatedAt,
	}
}

// ToCommentResponses converts comments to DTO.
func ToCommentResponses(cs []domain.Comment) []CommentResponse {
	res := make([]CommentResponse, len(cs))
	for i, c := range cs {
		res[i] = ToCommentResponse(&c)
	}
	return res
}
