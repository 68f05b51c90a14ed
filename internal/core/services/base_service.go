package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	GroupAuthorizer portssvc.GroupAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks that a user holds at least requiredRole in a group.
// Without an authorizer every request is denied.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, groupID string, requiredRole domain.GroupRole) error {
	if s.GroupAuthorizer == nil {
		s.LogError(ctx, errNoAuthorizer, "Group authorizer not configured",
			slog.String("user_id", userID),
			slog.String("group_id", groupID))
		return errNoAuthorizer
	}
	return s.GroupAuthorizer.AuthorizeUserAction(ctx, userID, groupID, requiredRole)
}

// newAuditLog builds an audit entry. before and after are snapshotted as
// JSON; nil snapshots are omitted.
func newAuditLog(groupID, entityType, entityID string, action domain.AuditAction, before, after any, actor string, at time.Time) domain.AuditLog {
	return domain.AuditLog{
		AuditID:    uuid.NewString(),
		GroupID:    groupID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Before:     snapshot(before),
		After:      snapshot(after),
		UserID:     actor,
		ChangedAt:  at,
	}
}

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
