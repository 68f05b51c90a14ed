package dto

import (
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
)

// --- Group DTOs ---

// CreateGroupRequest defines data for creating a new group.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// GroupResponse defines data returned for a group.
type GroupResponse struct {
	GroupID       string    `json:"groupID"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToGroupResponse converts domain.Group to DTO.
func ToGroupResponse(g *domain.Group) GroupResponse {
	return GroupResponse{
		GroupID:       g.GroupID,
		Name:          g.Name,
		IsActive:      g.IsActive,
		CreatedAt:     g.CreatedAt,
		CreatedBy:     g.CreatedBy,
		LastUpdatedAt: g.LastUpdatedAt,
		LastUpdatedBy: g.LastUpdatedBy,
	}
}

// ListGroupsResponse wraps a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// ToListGroupsResponse converts a slice of domain.Group to DTO.
func ToListGroupsResponse(gs []domain.Group) ListGroupsResponse {
	list := make([]GroupResponse, len(gs))
	for i, g := range gs {
		list[i] = ToGroupResponse(&g)
	}
	return ListGroupsResponse{Groups: list}
}

// --- Membership DTOs ---

// AddGroupMemberRequest adds an existing user to a group.
type AddGroupMemberRequest struct {
	UserID string           `json:"userID" binding:"required"`
	Role   domain.GroupRole `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

// CreateMemberUserRequest creates a brand new user directly inside a group.
type CreateMemberUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateMemberRoleRequest changes the role of a member.
type UpdateMemberRoleRequest struct {
	Role domain.GroupRole `json:"role" binding:"required,oneof=OWNER ADMIN MEMBER"`
}

// GroupMemberResponse defines data returned about a membership.
type GroupMemberResponse struct {
	UserID   string           `json:"userID"`
	UserName string           `json:"userName"`
	GroupID  string           `json:"groupID"`
	Role     domain.GroupRole `json:"role"`
	JoinedAt time.Time        `json:"joinedAt"`
}

// ToGroupMemberResponse converts domain.GroupMember to DTO.
func ToGroupMemberResponse(m *domain.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		UserID:   m.UserID,
		UserName: m.UserName,
		GroupID:  m.GroupID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// ListGroupMembersResponse wraps the members of a group.
type ListGroupMembersResponse struct {
	Members []GroupMemberResponse `json:"members"`
}

// ToListGroupMembersResponse converts memberships to DTO.
func ToListGroupMembersResponse(ms []domain.GroupMember) ListGroupMembersResponse {
	list := make([]GroupMemberResponse, len(ms))
	for i, m := range ms {
		list[i] = ToGroupMemberResponse(&m)
	}
	return ListGroupMembersResponse{Members: list}
}

// --- Category DTOs ---

// CategoryResponse defines data returned for a category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	IsGlobal   bool   `json:"isGlobal"`
}

// ToListCategoriesResponse converts categories to DTO.
func ToListCategoriesResponse(cs []domain.Category) []CategoryResponse {
	list := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		list[i] = CategoryResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Icon:       c.Icon,
			IsGlobal:   c.GroupID == nil,
		}
	}
	return list
}
