package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/services"
	"github.com/linguahub/linguahub-backend/internal/middleware"
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
)

// PostController handles blog post endpoints
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

// CreatePost creates a draft blog post
// @Summary Create a post
// @Description Creates a draft post; only teachers and admins can author posts
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post content"
// @Success 201 {object} dto.APIResponse{data=models.Post} "Post created"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !bindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.CreatePost(ctx, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(post, "Post created"))
}

// GetPost retrieves a post and records the view
// @Summary Get post details
// @Description Retrieves a post; each successful read of a published post counts as a view
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.postService.GetPost(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post, ""))
}

// ListPosts lists published posts, newest first
// @Summary List posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Posts"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	posts, total, err := c.postService.ListPosts(ctx, actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      posts,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// UpdatePost edits a post
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Post content"
// @Success 200 {object} dto.APIResponse{data=models.Post} "Post updated"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !bindJSON(ctx, &req) {
		return
	}

	post, err := c.postService.UpdatePost(ctx, actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post, "Post updated"))
}

// DeletePost removes a post
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.DeletePost(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Post deleted"))
}

// Publish moves a draft post to published
// @Summary Publish a post
// @Description Publishes a draft post; the first publish stamps publishedAt permanently
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post published"
// @Failure 400 {object} dto.ErrorResponse "Post is not a draft"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/publish [post]
func (c *PostController) Publish(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Publish(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Post published"))
}

// Unpublish hides a published post
// @Summary Unpublish a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post unpublished"
// @Failure 400 {object} dto.ErrorResponse "Post is not published"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/unpublish [post]
func (c *PostController) Unpublish(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.postService.Unpublish(ctx, actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Post unpublished"))
}

// ToggleLike flips the caller's like on a post
// @Summary Toggle post like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleLikeResponse} "Resulting like state"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /posts/{id}/like [post]
func (c *PostController) ToggleLike(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.postService.ToggleLike(ctx, actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
