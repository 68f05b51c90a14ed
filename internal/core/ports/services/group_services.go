package services

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/dto"
)

// GroupReaderSvc defines read operations for group data
type GroupReaderSvc interface {
	// FindGroupByID retrieves a group the requesting user belongs to.
	FindGroupByID(ctx context.Context, groupID, requestingUserID string) (*domain.Group, error)

	// ListUserGroups retrieves the groups a user belongs to.
	ListUserGroups(ctx context.Context, userID string) ([]domain.Group, error)

	// ListGroupMembers lists the current members of a group, oldest first.
	ListGroupMembers(ctx context.Context, groupID, requestingUserID string) ([]domain.GroupMember, error)

	// ListCategories lists the categories usable in a group.
	ListCategories(ctx context.Context, groupID, requestingUserID string) ([]domain.Category, error)
}

// GroupWriterSvc defines write operations for group data
type GroupWriterSvc interface {
	// CreateGroup creates a group owned by creatorUserID, seeded with the default categories.
	CreateGroup(ctx context.Context, name, creatorUserID string) (*domain.Group, error)
}

// GroupMembershipSvc defines operations for managing group membership
type GroupMembershipSvc interface {
	// CreateMemberUser creates a new user and adds it to the group as MEMBER.
	// Only the group owner can do this.
	CreateMemberUser(ctx context.Context, groupID, requestingUserID string, req dto.CreateMemberUserRequest) (*domain.GroupMember, error)

	// AddUserToGroup adds an existing user to a group with a specific role.
	AddUserToGroup(ctx context.Context, addingUserID, targetUserID, groupID string, role domain.GroupRole) error

	// RemoveUserFromGroup removes a user from a group.
	// Only group admins can remove users, and never themselves.
	RemoveUserFromGroup(ctx context.Context, requestingUserID, targetUserID, groupID string) error

	// UpdateMemberRole changes a user's role in a group.
	// Only the owner can change roles, and never their own.
	UpdateMemberRole(ctx context.Context, requestingUserID, targetUserID, groupID string, newRole domain.GroupRole) error
}

// GroupAuthorizerSvc defines operations for group authorization
type GroupAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for a group.
	// It returns ErrNotFound when the user is not a member and ErrForbidden
	// when the role is insufficient.
	AuthorizeUserAction(ctx context.Context, userID, groupID string, requiredRole domain.GroupRole) error
}

// GroupSvcFacade combines all group-related service interfaces
// This is a facade for clients that need access to all operations
type GroupSvcFacade interface {
	GroupReaderSvc
	GroupWriterSvc
	GroupMembershipSvc
	GroupAuthorizerSvc
}
