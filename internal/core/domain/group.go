package domain

import "time"

// Group is the shared space (a couple or household) that owns transactions,
// categories, goals and recurring templates.
type Group struct {
	GroupID  string `json:"groupID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}

// GroupRole defines the possible roles a user can have within a group.
type GroupRole string

const (
	RoleOwner   GroupRole = "OWNER"
	RoleAdmin   GroupRole = "ADMIN"
	RoleMember  GroupRole = "MEMBER"
	RoleRemoved GroupRole = "REMOVED" // For users who have been removed from the group
)

// rank orders roles for authorization checks. REMOVED and unknown roles rank 0.
func (r GroupRole) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// Satisfies reports whether r is at least as privileged as required.
func (r GroupRole) Satisfies(required GroupRole) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

// IsAssignable reports whether r can be set on a membership through the API.
func (r GroupRole) IsAssignable() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

// GroupMember represents the membership of a User in a Group.
type GroupMember struct {
	UserID   string    `json:"userID"`
	UserName string    `json:"userName"`
	GroupID  string    `json:"groupID"`
	Role     GroupRole `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// MemberIDs returns the user IDs of the members in their given order.
func MemberIDs(members []GroupMember) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids
}
