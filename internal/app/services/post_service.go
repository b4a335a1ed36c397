package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// PostService defines the interface for blog post operations
type PostService interface {
	CreatePost(ctx context.Context, actor Actor, req *dto.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, actor Actor, id int64) (*models.Post, error)
	ListPosts(ctx context.Context, actor Actor, page, size int) ([]*models.Post, int64, error)
	UpdatePost(ctx context.Context, actor Actor, id int64, req *dto.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, actor Actor, id int64) error
	Publish(ctx context.Context, actor Actor, id int64) error
	Unpublish(ctx context.Context, actor Actor, id int64) error
	ToggleLike(ctx context.Context, actor Actor, id int64) (*dto.ToggleLikeResponse, error)
}

// postServiceImpl implements the PostService interface
type postServiceImpl struct {
	postRepo PostStore
}

// NewPostService creates a new post service instance
func NewPostService(postRepo PostStore) PostService {
	return &postServiceImpl{
		postRepo: postRepo,
	}
}

func (s *postServiceImpl) canModify(actor Actor, post *models.Post) bool {
	return actor.IsAdmin() || post.AuthorID == actor.ID
}

func (s *postServiceImpl) validatePost(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: body cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreatePost creates a draft post. Only teachers and admins author posts.
func (s *postServiceImpl) CreatePost(ctx context.Context, actor Actor, req *dto.CreatePostRequest) (*models.Post, error) {
	if actor.Role != models.RoleTeacher && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only teachers and admins can write posts")
	}
	if err := s.validatePost(req.Title, req.Body); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: actor.ID,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Status:   models.PostStatusDraft,
	}

	id, err := s.postRepo.CreatePost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	post.ID = id

	return post, nil
}

// GetPost retrieves a post and records the view. Drafts read as not found
// to anyone but the author and admins; draft reads don't count as views.
func (s *postServiceImpl) GetPost(ctx context.Context, actor Actor, id int64) (*models.Post, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid post ID", apperrors.ErrValidationFailed)
	}

	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	if post.Status != models.PostStatusPublished {
		if !s.canModify(actor, post) {
			return nil, apperrors.ErrPostNotFound
		}
		return post, nil
	}

	if err := s.postRepo.IncrementViews(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("postID", id).Msg("Failed to record post view")
	} else {
		post.Views++
	}

	return post, nil
}

// ListPosts lists published posts for everyone; admins additionally see drafts
func (s *postServiceImpl) ListPosts(ctx context.Context, actor Actor, page, size int) ([]*models.Post, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	posts, total, err := s.postRepo.ListPosts(ctx, 0, !actor.IsAdmin(), offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing posts: %w", err)
	}

	return posts, total, nil
}

// UpdatePost edits a post's title and body
func (s *postServiceImpl) UpdatePost(ctx context.Context, actor Actor, id int64, req *dto.UpdatePostRequest) (*models.Post, error) {
	if err := s.validatePost(req.Title, req.Body); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	if !s.canModify(actor, post) {
		return nil, apperrors.ErrPermissionDenied
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Body = req.Body

	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	return post, nil
}

// DeletePost removes a post
func (s *postServiceImpl) DeletePost(ctx context.Context, actor Actor, id int64) error {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error retrieving post: %w", err)
	}

	if !s.canModify(actor, post) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postRepo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	return nil
}

// Publish moves a draft post to published. The first publish stamps
// published_at; republishing after an unpublish keeps the original stamp.
func (s *postServiceImpl) Publish(ctx context.Context, actor Actor, id int64) error {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error retrieving post: %w", err)
	}

	if !s.canModify(actor, post) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postRepo.PublishPost(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return fmt.Errorf("%w: only draft posts can be published", apperrors.ErrInvalidState)
		}
		return fmt.Errorf("error publishing post: %w", err)
	}

	return nil
}

// Unpublish hides a published post without touching published_at
func (s *postServiceImpl) Unpublish(ctx context.Context, actor Actor, id int64) error {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return apperrors.ErrPostNotFound
		}
		return fmt.Errorf("error retrieving post: %w", err)
	}

	if !s.canModify(actor, post) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.postRepo.UnpublishPost(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return fmt.Errorf("%w: only published posts can be unpublished", apperrors.ErrInvalidState)
		}
		return fmt.Errorf("error unpublishing post: %w", err)
	}

	return nil
}

// ToggleLike flips the actor's like on a published post
func (s *postServiceImpl) ToggleLike(ctx context.Context, actor Actor, id int64) (*dto.ToggleLikeResponse, error) {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	if post.Status != models.PostStatusPublished && !s.canModify(actor, post) {
		return nil, apperrors.ErrPostNotFound
	}

	liked, likes, err := s.postRepo.ToggleLike(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("error toggling post like: %w", err)
	}

	return &dto.ToggleLikeResponse{Liked: liked, Likes: likes}, nil
}
