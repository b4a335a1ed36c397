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

// CourseController handles course endpoints including the approval workflow
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// CreateCourse handles course creation
// @Summary Create a course
// @Description Creates a draft course pending admin approval
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course, "Course created"))
}

// GetCourse retrieves a course by ID
// @Summary Get course details
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, ""))
}

// ListCourses lists courses visible to the caller
// @Summary List courses
// @Description Students see published and approved courses, teachers their own, admins all
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Courses"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	courses, total, err := c.courseService.ListCourses(ctx, actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      courses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// UpdateCourse updates a course's descriptive fields
// @Summary Update a course
// @Description Updates title, description or level; material edits demote approval to pending
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Course updated"))
}

// UpdateStatus moves the owner-controlled publication axis
// @Summary Change course status
// @Description Moves a course between draft, published and archived
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/status [patch]
func (c *CourseController) UpdateStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.UpdateStatus(ctx, actor, id, models.CourseStatus(req.Status)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course status updated"))
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Description Deletes a course; rejected while lessons remain
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course still has lessons"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course deleted"))
}

// SubmitForApproval queues a course for admin review
// @Summary Submit course for approval
// @Description Moves the course into the admin review queue; requires at least one published lesson
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid state"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/submit [post]
func (c *CourseController) SubmitForApproval(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.SubmitForApproval(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course submitted for approval"))
}

// Approve grants admin approval to a pending course
// @Summary Approve a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Approved"
// @Failure 400 {object} dto.ErrorResponse "Course not pending"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/approve [post]
func (c *CourseController) Approve(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Approve(ctx, actor.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course approved"))
}

// Reject declines a pending course with a reason
// @Summary Reject a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.RejectCourseRequest true "Rejection reason"
// @Success 200 {object} dto.APIResponse "Rejected"
// @Failure 400 {object} dto.ErrorResponse "Course not pending"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/reject [post]
func (c *CourseController) Reject(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RejectCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.Reject(ctx, actor.ID, id, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course rejected"))
}
