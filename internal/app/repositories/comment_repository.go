package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// commentColumns includes reaction counts computed from comment_reactions,
// so likes/dislikes arrive with the row instead of needing extra queries.
const commentSelect = `
	c.id, c.content_type, c.content_id, c.author_id, c.parent_id, c.body,
	c.is_deleted, c.deleted_at, c.is_approved, c.is_reported, c.report_reason,
	c.is_edited, c.edited_at,
	COUNT(*) FILTER (WHERE r.kind = 'like')    AS likes,
	COUNT(*) FILTER (WHERE r.kind = 'dislike') AS dislikes,
	c.created_at, c.updated_at`

// contentTable maps a content kind to its backing table. Every supported
// kind must have a case here; unknown kinds are rejected before any SQL runs.
func contentTable(t models.ContentType) (string, error) {
	switch t {
	case models.ContentTypePost:
		return "posts", nil
	case models.ContentTypeLesson:
		return "lessons", nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, t)
	}
}

// CommentRepository handles comment and reaction database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	comment := &models.Comment{}
	err := row.Scan(
		&comment.ID, &comment.ContentType, &comment.ContentID, &comment.AuthorID,
		&comment.ParentID, &comment.Body, &comment.IsDeleted, &comment.DeletedAt,
		&comment.IsApproved, &comment.IsReported, &comment.ReportReason,
		&comment.IsEdited, &comment.EditedAt, &comment.Likes, &comment.Dislikes,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ContentExists reports whether the comment target exists and is publicly
// visible. Comments never attach to drafts: posts must be published, lessons
// must be published inside a published, approved course.
func (r *CommentRepository) ContentExists(ctx context.Context, contentType models.ContentType, contentID int64) (bool, error) {
	var query string
	switch contentType {
	case models.ContentTypePost:
		query = `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1 AND status = 'published')`
	case models.ContentTypeLesson:
		query = `SELECT EXISTS (
			SELECT 1 FROM lessons l
			JOIN courses c ON c.id = l.course_id
			WHERE l.id = $1
				AND l.status = 'published'
				AND c.status = 'published'
				AND c.admin_approval = 'approved')`
	default:
		return false, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedContentType, contentType)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, contentID).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("contentType", string(contentType)).Int64("contentID", contentID).
			Msg("Error checking comment target existence")
		return false, fmt.Errorf("error checking comment target: %w", err)
	}

	return exists, nil
}

// GetCommentByID retrieves a comment with its reaction counts
func (r *CommentRepository) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM comments c
		LEFT JOIN comment_reactions r ON r.comment_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`, commentSelect)

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		logger.Error().Err(err).Int64("commentID", id).Msg("Error scanning comment row")
		return nil, fmt.Errorf("error getting comment by ID: %w", err)
	}

	return comment, nil
}

// ListByContent retrieves every comment attached to a piece of content in
// creation order, reaction counts included. The service assembles the
// one-level reply tree from parent_id.
func (r *CommentRepository) ListByContent(ctx context.Context, contentType models.ContentType, contentID int64) ([]*models.Comment, error) {
	if _, err := contentTable(contentType); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s
		FROM comments c
		LEFT JOIN comment_reactions r ON r.comment_id = c.id
		WHERE c.content_type = $1 AND c.content_id = $2
		GROUP BY c.id
		ORDER BY c.created_at ASC, c.id ASC`, commentSelect)

	rows, err := r.db.Query(ctx, query, contentType, contentID)
	if err != nil {
		logger.Error().Err(err).Str("contentType", string(contentType)).Int64("contentID", contentID).
			Msg("Error executing list comments query")
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// CreateComment inserts the comment and bumps the target's comments_cnt with
// a storage-level atomic increment, both in one transaction. Creation is a
// single well-ordered event, so increment (not recompute) is the right
// strategy here; concurrent inserts each add exactly one.
func (r *CommentRepository) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	table, err := contentTable(comment.ContentType)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin create comment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO comments (content_type, content_id, author_id, parent_id, body)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		comment.ContentType, comment.ContentID, comment.AuthorID, comment.ParentID, comment.Body,
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create comment query")
		return 0, fmt.Errorf("error creating comment: %w", err)
	}

	incr := fmt.Sprintf(`UPDATE %s SET comments_cnt = comments_cnt + 1 WHERE id = $1`, table)
	cmdTag, err := tx.Exec(ctx, incr, comment.ContentID)
	if err != nil {
		return 0, fmt.Errorf("error incrementing comments count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = apperrors.ErrCommentTargetNotFound
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit create comment transaction: %w", err)
	}

	return id, nil
}

// SoftDelete marks a comment deleted. The row stays, replies stay attached,
// and the target's comments_cnt is left alone: the historical count is kept.
func (r *CommentRepository) SoftDelete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("comments").
		SetMap(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build soft delete comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", id).Msg("Error executing soft delete comment query")
		return fmt.Errorf("error soft deleting comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// UpdateBody edits a comment's body and marks it edited
func (r *CommentRepository) UpdateBody(ctx context.Context, id int64, body string) error {
	sql, args, err := r.sb.Update("comments").
		SetMap(map[string]interface{}{
			"body":       body,
			"is_edited":  true,
			"edited_at":  time.Now(),
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", id).Msg("Error executing update comment query")
		return fmt.Errorf("error updating comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// Report flags a comment for moderation without hiding it
func (r *CommentRepository) Report(ctx context.Context, id int64, reason string) error {
	sql, args, err := r.sb.Update("comments").
		SetMap(map[string]interface{}{
			"is_reported":   true,
			"report_reason": reason,
			"updated_at":    time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build report comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", id).Msg("Error executing report comment query")
		return fmt.Errorf("error reporting comment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// SetApproval hides (approved=false) or unhides a comment; admin action
func (r *CommentRepository) SetApproval(ctx context.Context, id int64, approved bool) error {
	sql, args, err := r.sb.Update("comments").
		Set("is_approved", approved).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build set comment approval query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", id).Msg("Error executing set comment approval query")
		return fmt.Errorf("error setting comment approval: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// ToggleReaction flips a user's reaction on a comment inside one transaction.
// The existing row is read under FOR UPDATE, then removed (same kind),
// switched (opposite kind) or inserted (none). The (comment_id, user_id)
// primary key holds one row at most, so a user can never be in both sets.
// Returns the resulting kind ("" when removed) and the fresh counts.
func (r *CommentRepository) ToggleReaction(ctx context.Context, commentID, userID int64, kind models.ReactionKind) (models.ReactionKind, int, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to begin toggle reaction transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var current models.ReactionKind
	err = tx.QueryRow(ctx,
		`SELECT kind FROM comment_reactions WHERE comment_id = $1 AND user_id = $2 FOR UPDATE`,
		commentID, userID).Scan(&current)

	var result models.ReactionKind
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx,
			`INSERT INTO comment_reactions (comment_id, user_id, kind) VALUES ($1, $2, $3)`,
			commentID, userID, kind)
		if err != nil {
			return "", 0, 0, fmt.Errorf("error inserting reaction: %w", err)
		}
		result = kind
	case err != nil:
		return "", 0, 0, fmt.Errorf("error reading current reaction: %w", err)
	case current == kind:
		// Same kind toggles off
		_, err = tx.Exec(ctx,
			`DELETE FROM comment_reactions WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID)
		if err != nil {
			return "", 0, 0, fmt.Errorf("error removing reaction: %w", err)
		}
		result = ""
	default:
		// Opposite kind switches sets in place
		_, err = tx.Exec(ctx,
			`UPDATE comment_reactions SET kind = $3 WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID, kind)
		if err != nil {
			return "", 0, 0, fmt.Errorf("error switching reaction: %w", err)
		}
		result = kind
	}

	var likes, dislikes int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE kind = 'like'), COUNT(*) FILTER (WHERE kind = 'dislike')
		 FROM comment_reactions WHERE comment_id = $1`, commentID).Scan(&likes, &dislikes)
	if err != nil {
		return "", 0, 0, fmt.Errorf("error counting reactions: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return "", 0, 0, fmt.Errorf("failed to commit toggle reaction transaction: %w", err)
	}
	committed = true

	return result, likes, dislikes, nil
}
