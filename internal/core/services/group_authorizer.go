package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
)

// groupAuthorizer answers role checks from the membership table. Every other
// service takes it through BaseService.
type groupAuthorizer struct {
	BaseService
	groupRepo portsrepo.GroupMembershipManager
}

// NewGroupAuthorizer creates the authorizer shared by all group-scoped services.
func NewGroupAuthorizer(groupRepo portsrepo.GroupMembershipManager) portssvc.GroupAuthorizerSvc {
	return &groupAuthorizer{groupRepo: groupRepo}
}

var _ portssvc.GroupAuthorizerSvc = (*groupAuthorizer)(nil)

func (a *groupAuthorizer) AuthorizeUserAction(ctx context.Context, userID, groupID string, requiredRole domain.GroupRole) error {
	membership, err := a.groupRepo.FindGroupMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			a.LogDebug(ctx, "User not a member of group",
				slog.String("user_id", userID),
				slog.String("group_id", groupID))
			return fmt.Errorf("%w: group %s", apperrors.ErrNotFound, groupID)
		}
		a.LogError(ctx, err, "Failed to find group membership",
			slog.String("user_id", userID),
			slog.String("group_id", groupID))
		return err
	}

	if membership.Role == domain.RoleRemoved {
		return fmt.Errorf("%w: group %s", apperrors.ErrNotFound, groupID)
	}

	if !membership.Role.Satisfies(requiredRole) {
		a.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("group_id", groupID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return fmt.Errorf("%w: %s role required", apperrors.ErrForbidden, requiredRole)
	}
	return nil
}
