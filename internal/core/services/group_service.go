package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/google/uuid"
)

// groupService implements the GroupSvcFacade interface
type groupService struct {
	BaseService
	groupRepo    portsrepo.GroupRepositoryFacade
	userRepo     portsrepo.UserRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	auditSvc     portssvc.AuditSvcFacade
	now          func() time.Time
}

// GroupServiceOption configures a group service.
type GroupServiceOption func(*groupService)

// WithGroupAuditRecorder records membership changes in the audit log.
func WithGroupAuditRecorder(auditSvc portssvc.AuditSvcFacade) GroupServiceOption {
	return func(s *groupService) {
		s.auditSvc = auditSvc
	}
}

// WithGroupClock overrides the clock used to stamp records.
func WithGroupClock(now func() time.Time) GroupServiceOption {
	return func(s *groupService) {
		s.now = now
	}
}

// NewGroupService creates a new group service with the provided dependencies
func NewGroupService(
	groupRepo portsrepo.GroupRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	authorizer portssvc.GroupAuthorizerSvc,
	opts ...GroupServiceOption,
) portssvc.GroupSvcFacade {
	s := &groupService{
		BaseService:  BaseService{GroupAuthorizer: authorizer},
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.GroupSvcFacade = (*groupService)(nil)

func (s *groupService) AuthorizeUserAction(ctx context.Context, userID, groupID string, requiredRole domain.GroupRole) error {
	return s.AuthorizeUser(ctx, userID, groupID, requiredRole)
}

// FindGroupByID retrieves a group the requesting user belongs to
func (s *groupService) FindGroupByID(ctx context.Context, groupID, requestingUserID string) (*domain.Group, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find group by ID", slog.String("group_id", groupID))
		}
		return nil, err
	}
	return group, nil
}

// ListUserGroups retrieves all groups a user belongs to
func (s *groupService) ListUserGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListGroupsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups for user", slog.String("user_id", userID))
		return nil, err
	}
	if groups == nil {
		return []domain.Group{}, nil
	}
	s.LogDebug(ctx, "Groups listed successfully",
		slog.Int("count", len(groups)),
		slog.String("user_id", userID))
	return groups, nil
}

func (s *groupService) ListGroupMembers(ctx context.Context, groupID, requestingUserID string) ([]domain.GroupMember, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list group members", slog.String("group_id", groupID))
		return nil, err
	}
	return members, nil
}

func (s *groupService) ListCategories(ctx context.Context, groupID, requestingUserID string) ([]domain.Category, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategoriesForGroup(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("group_id", groupID))
		return nil, err
	}
	return categories, nil
}

// CreateGroup creates a group owned by its creator and seeds the default
// categories, all in one database transaction.
func (s *groupService) CreateGroup(ctx context.Context, name, creatorUserID string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("group name is required")
	}

	now := s.now()
	group := domain.Group{
		GroupID:     uuid.NewString(),
		Name:        name,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	owner := domain.GroupMember{
		UserID:   creatorUserID,
		GroupID:  group.GroupID,
		Role:     domain.RoleOwner,
		JoinedAt: now,
	}
	categories := make([]domain.Category, len(domain.DefaultCategories))
	for i, dc := range domain.DefaultCategories {
		groupID := group.GroupID
		categories[i] = domain.Category{
			CategoryID: uuid.NewString(),
			GroupID:    &groupID,
			Name:       dc.Name,
			Icon:       dc.Icon,
		}
	}
	audit := newAuditLog(group.GroupID, domain.EntityGroup, group.GroupID, domain.AuditCreate, nil, group, creatorUserID, now)

	if err := s.groupRepo.CreateGroup(ctx, group, owner, categories, audit); err != nil {
		s.LogError(ctx, err, "Failed to create group", slog.String("creator_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Group created successfully",
		slog.String("group_id", group.GroupID),
		slog.String("creator_id", creatorUserID))
	return &group, nil
}

// CreateMemberUser creates a login for a new person and adds them as MEMBER.
func (s *groupService) CreateMemberUser(ctx context.Context, groupID, requestingUserID string, req dto.CreateMemberUserRequest) (*domain.GroupMember, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleOwner); err != nil {
		return nil, err
	}
	if len(req.Password) < 8 {
		return nil, validationErrorf("password must be at least 8 characters")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.NewConflictError("a user with email " + email + " already exists")
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up user by email")
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", apperrors.ErrInternal)
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(requestingUserID, now),
	}
	member := domain.GroupMember{
		UserID:   user.UserID,
		UserName: user.Name,
		GroupID:  groupID,
		Role:     domain.RoleMember,
		JoinedAt: now,
	}

	if err := s.groupRepo.AddNewUserToGroup(ctx, user, member); err != nil {
		s.LogError(ctx, err, "Failed to create member user", slog.String("group_id", groupID))
		return nil, err
	}
	s.recordMembership(ctx, groupID, member.UserID, domain.AuditCreate, nil, member, requestingUserID, now)

	s.LogInfo(ctx, "Member user created",
		slog.String("group_id", groupID),
		slog.String("user_id", user.UserID))
	return &member, nil
}

// AddUserToGroup adds an existing user to a group with a specific role
func (s *groupService) AddUserToGroup(ctx context.Context, addingUserID, targetUserID, groupID string, role domain.GroupRole) error {
	if err := s.AuthorizeUser(ctx, addingUserID, groupID, domain.RoleAdmin); err != nil {
		return err
	}
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return validationErrorf("role %q cannot be granted when adding a member", role)
	}

	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	existing, err := s.groupRepo.FindGroupMember(ctx, groupID, targetUserID)
	switch {
	case err == nil && existing.Role != domain.RoleRemoved:
		return apperrors.NewConflictError("user is already a member of the group")
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	now := s.now()
	membership := domain.GroupMember{
		UserID:   targetUserID,
		UserName: target.Name,
		GroupID:  groupID,
		Role:     role,
		JoinedAt: now,
	}
	if err := s.groupRepo.AddGroupMember(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to group",
			slog.String("target_user_id", targetUserID),
			slog.String("group_id", groupID))
		return err
	}
	if !target.IsActive {
		if err := s.userRepo.SetUserActive(ctx, targetUserID, true, addingUserID, now); err != nil {
			s.LogError(ctx, err, "Failed to reactivate user", slog.String("target_user_id", targetUserID))
			return err
		}
	}
	s.recordMembership(ctx, groupID, targetUserID, domain.AuditCreate, existing, membership, addingUserID, now)

	s.LogInfo(ctx, "User added to group successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("group_id", groupID),
		slog.String("role", string(role)))
	return nil
}

// RemoveUserFromGroup marks a member REMOVED. A user left without any group
// is deactivated.
func (s *groupService) RemoveUserFromGroup(ctx context.Context, requestingUserID, targetUserID, groupID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return err
	}
	if requestingUserID == targetUserID {
		return validationErrorf("you cannot remove yourself from the group")
	}

	member, err := s.groupRepo.FindGroupMember(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}
	if member.Role == domain.RoleRemoved {
		return apperrors.NewNotFoundError("group member not found")
	}
	if member.Role == domain.RoleOwner {
		return fmt.Errorf("%w: the group owner cannot be removed", apperrors.ErrForbidden)
	}

	if err := s.groupRepo.UpdateMemberRole(ctx, groupID, targetUserID, domain.RoleRemoved); err != nil {
		s.LogError(ctx, err, "Failed to remove user from group",
			slog.String("target_user_id", targetUserID),
			slog.String("group_id", groupID))
		return err
	}

	now := s.now()
	remaining, err := s.groupRepo.CountActiveMemberships(ctx, targetUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count remaining memberships", slog.String("target_user_id", targetUserID))
		return err
	}
	if remaining == 0 {
		if err := s.userRepo.SetUserActive(ctx, targetUserID, false, requestingUserID, now); err != nil {
			s.LogError(ctx, err, "Failed to deactivate user", slog.String("target_user_id", targetUserID))
			return err
		}
	}
	s.recordMembership(ctx, groupID, targetUserID, domain.AuditDelete, member, nil, requestingUserID, now)

	s.LogInfo(ctx, "User removed from group",
		slog.String("target_user_id", targetUserID),
		slog.String("group_id", groupID),
		slog.Bool("deactivated", remaining == 0))
	return nil
}

// UpdateMemberRole changes the role of another member. Owner only.
func (s *groupService) UpdateMemberRole(ctx context.Context, requestingUserID, targetUserID, groupID string, newRole domain.GroupRole) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleOwner); err != nil {
		return err
	}
	if requestingUserID == targetUserID {
		return validationErrorf("you cannot change your own role")
	}
	if !newRole.IsAssignable() {
		return validationErrorf("invalid role %q", newRole)
	}

	member, err := s.groupRepo.FindGroupMember(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}
	if member.Role == domain.RoleRemoved {
		return apperrors.NewNotFoundError("group member not found")
	}
	if member.Role == newRole {
		return nil
	}

	if err := s.groupRepo.UpdateMemberRole(ctx, groupID, targetUserID, newRole); err != nil {
		s.LogError(ctx, err, "Failed to update member role",
			slog.String("target_user_id", targetUserID),
			slog.String("group_id", groupID))
		return err
	}

	updated := *member
	updated.Role = newRole
	s.recordMembership(ctx, groupID, targetUserID, domain.AuditUpdate, member, updated, requestingUserID, s.now())

	s.LogInfo(ctx, "Member role updated",
		slog.String("target_user_id", targetUserID),
		slog.String("group_id", groupID),
		slog.String("role", string(newRole)))
	return nil
}

// recordMembership appends an audit entry for a membership change. The change
// is already committed, so a failure here is logged and not returned.
func (s *groupService) recordMembership(ctx context.Context, groupID, userID string, action domain.AuditAction, before, after any, actor string, at time.Time) {
	if s.auditSvc == nil {
		return
	}
	// Typed nil pointers must not be snapshotted as JSON null.
	if m, ok := before.(*domain.GroupMember); ok && m == nil {
		before = nil
	}
	log := newAuditLog(groupID, domain.EntityGroupMember, userID, action, before, after, actor, at)
	if err := s.auditSvc.Record(ctx, log); err != nil {
		s.LogError(ctx, err, "Failed to record membership audit",
			slog.String("group_id", groupID),
			slog.String("user_id", userID))
	}
}
