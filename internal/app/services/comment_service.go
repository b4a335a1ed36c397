package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

// CommentService defines the interface for comment and reaction operations
type CommentService interface {
	AddComment(ctx context.Context, actor Actor, req *dto.CreateCommentRequest) (*models.Comment, error)
	GetThread(ctx context.Context, actor Actor, contentType models.ContentType, contentID int64) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, actor Actor, id int64, body string) error
	DeleteComment(ctx context.Context, actor Actor, id int64) error
	ToggleReaction(ctx context.Context, actor Actor, id int64, kind models.ReactionKind) (*dto.ReactionResponse, error)
	Report(ctx context.Context, actor Actor, id int64, reason string) error
	SetApproval(ctx context.Context, id int64, approved bool) error
}

// commentServiceImpl implements the CommentService interface
type commentServiceImpl struct {
	commentRepo CommentStore
}

// NewCommentService creates a new comment service instance
func NewCommentService(commentRepo CommentStore) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
	}
}

// AddComment attaches a comment to a post or lesson. The target must exist
// (an unpublished post reads as missing). A reply's parent must belong to
// the same target, must not be soft-deleted, and must itself be a top-level
// comment: threads are one level deep.
func (s *commentServiceImpl) AddComment(ctx context.Context, actor Actor, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: comment body cannot be empty", apperrors.ErrValidationFailed)
	}

	contentType := models.ContentType(req.ContentType)
	if !models.ValidContentType(contentType) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, req.ContentType)
	}

	exists, err := s.commentRepo.ContentExists(ctx, contentType, req.ContentID)
	if err != nil {
		return nil, fmt.Errorf("error checking comment target: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrCommentTargetNotFound
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrCommentNotFound) {
				return nil, apperrors.ErrParentCommentNotFound
			}
			return nil, fmt.Errorf("error retrieving parent comment: %w", err)
		}
		if parent.IsDeleted {
			return nil, apperrors.ErrParentCommentNotFound
		}
		if parent.ContentType != contentType || parent.ContentID != req.ContentID {
			return nil, apperrors.ErrParentCommentNotFound
		}
		if parent.ParentID != nil {
			return nil, apperrors.ErrReplyDepthExceeded
		}
	}

	comment := &models.Comment{
		ContentType: contentType,
		ContentID:   req.ContentID,
		AuthorID:    actor.ID,
		ParentID:    req.ParentID,
		Body:        strings.TrimSpace(req.Body),
		IsApproved:  true,
	}

	id, err := s.commentRepo.CreateComment(ctx, comment)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommentTargetNotFound) {
			return nil, apperrors.ErrCommentTargetNotFound
		}
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	comment.ID = id

	return comment, nil
}

// GetThread returns the target's comment tree: top-level comments in
// creation order, each carrying its replies. Soft-deleted comments keep
// their slot with a blanked body so reply threads stay readable; comments
// hidden by moderation are dropped for non-admins.
func (s *commentServiceImpl) GetThread(ctx context.Context, actor Actor, contentType models.ContentType, contentID int64) ([]*models.Comment, error) {
	if !models.ValidContentType(contentType) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, contentType)
	}
	if contentID <= 0 {
		return nil, fmt.Errorf("%w: invalid content ID", apperrors.ErrValidationFailed)
	}

	comments, err := s.commentRepo.ListByContent(ctx, contentType, contentID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	byID := make(map[int64]*models.Comment, len(comments))
	thread := []*models.Comment{}
	for _, comment := range comments {
		if !comment.IsApproved && !actor.IsAdmin() && comment.AuthorID != actor.ID {
			continue
		}
		if comment.IsDeleted {
			comment.Body = ""
		}
		if comment.ParentID == nil {
			byID[comment.ID] = comment
			thread = append(thread, comment)
			continue
		}
		if parent, ok := byID[*comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, comment)
		}
	}

	return thread, nil
}

// UpdateComment edits a comment's body. Editing is author-only; admins
// moderate through SetApproval instead.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, actor Actor, id int64, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: comment body cannot be empty", apperrors.ErrValidationFailed)
	}

	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error retrieving comment: %w", err)
	}

	if comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}
	if comment.AuthorID != actor.ID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.commentRepo.UpdateBody(ctx, id, strings.TrimSpace(body)); err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error updating comment: %w", err)
	}

	return nil
}

// DeleteComment soft-deletes a comment. The author or an admin may delete;
// the target's comment count is deliberately left untouched.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, actor Actor, id int64) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error retrieving comment: %w", err)
	}

	if comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}
	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}

	if err := s.commentRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error deleting comment: %w", err)
	}

	return nil
}

// ToggleReaction flips the actor's like or dislike on a comment
func (s *commentServiceImpl) ToggleReaction(ctx context.Context, actor Actor, id int64, kind models.ReactionKind) (*dto.ReactionResponse, error) {
	if !models.ValidReactionKind(kind) {
		return nil, fmt.Errorf("%w: unknown reaction kind %q", apperrors.ErrValidationFailed, kind)
	}

	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}
	if comment.IsDeleted {
		return nil, apperrors.ErrCommentNotFound
	}

	result, likes, dislikes, err := s.commentRepo.ToggleReaction(ctx, id, actor.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("error toggling reaction: %w", err)
	}

	return &dto.ReactionResponse{
		Kind:     string(result),
		Likes:    likes,
		Dislikes: dislikes,
	}, nil
}

// Report flags a comment for moderation without hiding it
func (s *commentServiceImpl) Report(ctx context.Context, actor Actor, id int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: report reason cannot be empty", apperrors.ErrValidationFailed)
	}

	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error retrieving comment: %w", err)
	}
	if comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}

	if err := s.commentRepo.Report(ctx, id, strings.TrimSpace(reason)); err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error reporting comment: %w", err)
	}

	return nil
}

// SetApproval hides or unhides a comment; the route restricts this to admins
func (s *commentServiceImpl) SetApproval(ctx context.Context, id int64, approved bool) error {
	if err := s.commentRepo.SetApproval(ctx, id, approved); err != nil {
		if errors.Is(err, apperrors.ErrCommentNotFound) {
			return apperrors.ErrCommentNotFound
		}
		return fmt.Errorf("error setting comment approval: %w", err)
	}

	return nil
}
