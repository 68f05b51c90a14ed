package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// groupHandler handles HTTP requests related to groups and their members.
type groupHandler struct {
	groupService portssvc.GroupSvcFacade
}

func newGroupHandler(gs portssvc.GroupSvcFacade) *groupHandler {
	return &groupHandler{groupService: gs}
}

// RegisterGroupRoutes registers the group, membership and category routes.
func RegisterGroupRoutes(rg *gin.RouterGroup, groupService portssvc.GroupSvcFacade) {
	h := newGroupHandler(groupService)

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listUserGroups)
	}

	group := rg.Group("/groups/:group_id")
	{
		group.GET("", h.getGroup)
		group.GET("/categories", h.listCategories)

		members := group.Group("/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.POST("/users", h.createMemberUser)
			members.PUT("/:user_id", h.updateMemberRole)
			members.DELETE("/:user_id", h.removeMember)
		}
	}
}

// createGroup godoc
// @Summary Create a group
// @Description Creates a group owned by the caller and seeds its default categories.
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondError(c, err, "Failed to create group")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Group created", slog.String("group_id", group.GroupID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// listUserGroups godoc
// @Summary List my groups
// @Description Lists the groups the caller is an active member of.
// @Tags groups
// @Produce json
// @Success 200 {object} dto.ListGroupsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listUserGroups(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	groups, err := h.groupService.ListUserGroups(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGroupsResponse(groups))
}

// getGroup godoc
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	group, err := h.groupService.FindGroupByID(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve group")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// listCategories godoc
// @Summary List categories
// @Description Lists the global categories plus the group's own.
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.CategoryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/categories [get]
func (h *groupHandler) listCategories(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	categories, err := h.groupService.ListCategories(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoriesResponse(categories))
}

// listMembers godoc
// @Summary List members
// @Tags groups
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {object} dto.ListGroupMembersResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members [get]
func (h *groupHandler) listMembers(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	members, err := h.groupService.ListGroupMembers(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGroupMembersResponse(members))
}

// addMember godoc
// @Summary Add an existing user
// @Description Adds an existing user to the group as ADMIN or MEMBER. Requires ADMIN.
// @Tags groups
// @Accept json
// @Param group_id path string true "Group ID"
// @Param member body dto.AddGroupMemberRequest true "Member"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /groups/{group_id}/members [post]
func (h *groupHandler) addMember(c *gin.Context) {
	var req dto.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.groupService.AddUserToGroup(c.Request.Context(), userID, req.UserID, c.Param("group_id"), req.Role); err != nil {
		respondError(c, err, "Failed to add member")
		return
	}
	c.Status(http.StatusNoContent)
}

// createMemberUser godoc
// @Summary Create a member account
// @Description Creates a brand new user and adds it to the group as MEMBER. Requires OWNER.
// @Tags groups
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param user body dto.CreateMemberUserRequest true "New user"
// @Success 201 {object} dto.GroupMemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /groups/{group_id}/members/users [post]
func (h *groupHandler) createMemberUser(c *gin.Context) {
	var req dto.CreateMemberUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	member, err := h.groupService.CreateMemberUser(c.Request.Context(), c.Param("group_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToGroupMemberResponse(member))
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description Requires OWNER; the owner cannot change their own role.
// @Tags groups
// @Accept json
// @Param group_id path string true "Group ID"
// @Param user_id path string true "User ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id} [put]
func (h *groupHandler) updateMemberRole(c *gin.Context) {
	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	err := h.groupService.UpdateMemberRole(c.Request.Context(), userID, c.Param("user_id"), c.Param("group_id"), req.Role)
	if err != nil {
		respondError(c, err, "Failed to update member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member
// @Description Requires ADMIN. Nobody can remove themselves or the owner.
// @Tags groups
// @Param group_id path string true "Group ID"
// @Param user_id path string true "User ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/members/{user_id} [delete]
func (h *groupHandler) removeMember(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.groupService.RemoveUserFromGroup(c.Request.Context(), userID, c.Param("user_id"), c.Param("group_id")); err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
