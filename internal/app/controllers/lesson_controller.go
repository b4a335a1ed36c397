package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/services"
	"github.com/linguahub/linguahub-backend/internal/middleware"
)

// LessonController handles lesson endpoints nested under courses
type LessonController struct {
	lessonService services.LessonService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService) *LessonController {
	return &LessonController{
		lessonService: lessonService,
	}
}

// CreateLesson adds a lesson to a course
// @Summary Create a lesson
// @Description Adds a draft lesson to a course the caller owns
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateLessonRequest true "Lesson information"
// @Success 201 {object} dto.APIResponse{data=models.Lesson} "Lesson created"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lesson, err := c.lessonService.CreateLesson(ctx, actor, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lesson, "Lesson created"))
}

// ListLessons lists a course's lessons in position order
// @Summary List course lessons
// @Description Owners and admins see drafts; others see published lessons of visible courses
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Lesson} "Lessons"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lessons, err := c.lessonService.ListLessons(ctx, actor, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lessons, ""))
}

// GetLesson retrieves a lesson by ID
// @Summary Get lesson details
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.lessonService.GetLesson(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson, ""))
}

// UpdateLesson updates a lesson's content and position
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Lesson information"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lesson, err := c.lessonService.UpdateLesson(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson, "Lesson updated"))
}

// UpdateStatus moves a lesson between draft and published
// @Summary Change lesson status
// @Description Publishing or unpublishing a lesson resynchronizes the course's lesson count
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse "Status updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/status [patch]
func (c *LessonController) UpdateStatus(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.lessonService.UpdateStatus(ctx, actor, id, models.LessonStatus(req.Status)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Lesson status updated"))
}

// DeleteLesson removes a lesson
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse "Lesson deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.lessonService.DeleteLesson(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Lesson deleted"))
}
