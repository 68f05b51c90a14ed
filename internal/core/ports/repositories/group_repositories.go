package repositories

import (
	"context"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// GroupReader defines read operations for group data
type GroupReader interface {
	// FindGroupByID retrieves a specific group by its ID.
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroupsByUserID retrieves the active groups a user is a non-removed member of.
	ListGroupsByUserID(ctx context.Context, userID string) ([]domain.Group, error)
}

// GroupWriter defines write operations for group data
type GroupWriter interface {
	// CreateGroup persists a group together with its owner membership, its
	// seeded categories and the audit entry, atomically.
	CreateGroup(ctx context.Context, group domain.Group, owner domain.GroupMember, categories []domain.Category, audit domain.AuditLog) error
}

// GroupMembershipManager defines operations for managing group memberships
type GroupMembershipManager interface {
	// FindGroupMember retrieves the membership of a user in a group.
	FindGroupMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error)

	// ListGroupMembers lists the non-removed members of a group, oldest first.
	ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)

	// AddGroupMember adds a membership or updates the role of an existing one.
	AddGroupMember(ctx context.Context, membership domain.GroupMember) error

	// AddNewUserToGroup creates a user and its membership atomically.
	AddNewUserToGroup(ctx context.Context, user domain.User, membership domain.GroupMember) error

	// UpdateMemberRole changes the role of a member. REMOVED marks a removal.
	UpdateMemberRole(ctx context.Context, groupID, userID string, role domain.GroupRole) error

	// CountActiveMemberships counts the memberships of a user that are not REMOVED.
	CountActiveMemberships(ctx context.Context, userID string) (int, error)
}

// GroupRepositoryFacade combines all group-related repository interfaces
type GroupRepositoryFacade interface {
	GroupReader
	GroupWriter
	GroupMembershipManager
}
