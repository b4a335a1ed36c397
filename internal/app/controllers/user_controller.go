package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/services"
	"github.com/linguahub/linguahub-backend/internal/middleware"
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
)

// UserController handles admin user management endpoints
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// ListUsers returns a page of user accounts
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Users"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	users, total, err := c.userService.ListUsers(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// GetUser returns a single user account
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(user), ""))
}

// SetActive enables or disables an account
// @Summary Toggle account active flag
// @Description Disabled accounts cannot log in or refresh tokens
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse "Account updated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/active [patch]
func (c *UserController) SetActive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserActiveRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SetActive(ctx, id, *req.IsActive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Account updated"))
}

// UpdateRole changes a user's role
// @Summary Change user role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRoleRequest true "New role"
// @Success 200 {object} dto.APIResponse "Role updated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/role [patch]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userService.UpdateRole(ctx, id, models.RoleType(req.RoleType)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Role updated"))
}

// TouchStudyDate records study activity for the caller
// @Summary Record study activity
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Study activity recorded"
// @Router /users/study-activity [post]
func (c *UserController) TouchStudyDate(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	if err := c.userService.TouchStudyDate(ctx, actor.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Study activity recorded"))
}
