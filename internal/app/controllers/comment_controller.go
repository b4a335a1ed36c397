package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/services"
	"github.com/linguahub/linguahub-backend/internal/middleware"
)

// CommentController handles comment and reaction endpoints
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// AddComment attaches a comment to a post or lesson
// @Summary Create a comment
// @Description Adds a comment or a one-level reply to a post or lesson
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=models.Comment} "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or reply depth exceeded"
// @Failure 404 {object} dto.ErrorResponse "Target or parent comment not found"
// @Router /comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.AddComment(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment, "Comment created"))
}

// GetThread lists a target's comment tree
// @Summary List comments
// @Description Returns top-level comments with their replies for a post or lesson
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param contentType query string true "Content type (post or lesson)"
// @Param contentId query int true "Content ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Comment} "Comments"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /comments [get]
func (c *CommentController) GetThread(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	contentType := models.ContentType(ctx.Query("contentType"))
	contentID, err := strconv.ParseInt(ctx.Query("contentId"), 10, 64)
	if err != nil || contentID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid contentId parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	thread, err := c.commentService.GetThread(ctx, actor, contentType, contentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(thread, ""))
}

// UpdateComment edits a comment's body
// @Summary Edit a comment
// @Description Author-only edit; the comment is marked as edited
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New body"
// @Success 200 {object} dto.APIResponse "Comment updated"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.commentService.UpdateComment(ctx, actor, id, req.Body); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment updated"))
}

// DeleteComment soft-deletes a comment
// @Summary Delete a comment
// @Description Soft delete by the author or an admin; thread structure and counts are preserved
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse "Comment deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.commentService.DeleteComment(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment deleted"))
}

// ToggleReaction flips the caller's like or dislike on a comment
// @Summary Toggle comment reaction
// @Description Same kind toggles off, the opposite kind switches; a user holds at most one reaction per comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.ReactionRequest true "Reaction kind"
// @Success 200 {object} dto.APIResponse{data=dto.ReactionResponse} "Resulting reaction state"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id}/reactions [post]
func (c *CommentController) ToggleReaction(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.commentService.ToggleReaction(ctx, actor, id, models.ReactionKind(req.Kind))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Report flags a comment for moderation
// @Summary Report a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.ReportCommentRequest true "Report reason"
// @Success 200 {object} dto.APIResponse "Comment reported"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id}/report [post]
func (c *CommentController) Report(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReportCommentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.commentService.Report(ctx, actor, id, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment reported"))
}

// SetApproval hides or unhides a comment
// @Summary Moderate a comment
// @Description Admin-only visibility toggle for reported comments
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.SetCommentApprovalRequest true "Approved flag"
// @Success 200 {object} dto.APIResponse "Approval updated"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id}/approval [patch]
func (c *CommentController) SetApproval(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetCommentApprovalRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.commentService.SetApproval(ctx, id, *req.Approved); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment approval updated"))
}
