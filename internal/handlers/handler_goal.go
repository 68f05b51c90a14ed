package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type goalHandler struct {
	goalService portssvc.GoalSvcFacade
}

// RegisterGoalRoutes registers the savings goal routes on a
// /groups/:group_id router group.
func RegisterGoalRoutes(group *gin.RouterGroup, gs portssvc.GoalSvcFacade) {
	h := &goalHandler{goalService: gs}

	goals := group.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.PUT("/:goal_id", h.updateGoal)
		goals.DELETE("/:goal_id", h.deleteGoal)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param goal body dto.CreateGoalRequest true "Goal"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), c.Param("group_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create goal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List savings goals
// @Tags goals
// @Produce json
// @Param group_id path string true "Group ID"
// @Success 200 {array} dto.GoalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), c.Param("group_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponses(goals))
}

// updateGoal godoc
// @Summary Update a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Param group_id path string true "Group ID"
// @Param goal_id path string true "Goal ID"
// @Param goal body dto.UpdateGoalRequest true "Changes"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/goals/{goal_id} [put]
func (h *goalHandler) updateGoal(c *gin.Context) {
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), c.Param("group_id"), c.Param("goal_id"), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a savings goal
// @Description Removes the goal. Its transactions are kept without the link.
// @Tags goals
// @Param group_id path string true "Group ID"
// @Param goal_id path string true "Goal ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/goals/{goal_id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	userID, ok := requestingUser(c)
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), c.Param("group_id"), c.Param("goal_id"), userID); err != nil {
		respondError(c, err, "Failed to delete goal")
		return
	}
	c.Status(http.StatusNoContent)
}
