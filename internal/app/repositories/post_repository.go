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

var postColumns = []string{
	"id", "author_id", "title", "body", "status", "published_at",
	"comments_cnt", "views", "likes", "created_at", "updated_at",
}

// PostRepository handles blog post database operations
type PostRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Body, &post.Status, &post.PublishedAt,
		&post.CommentsCnt, &post.Views, &post.Likes, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost creates a new post in draft state
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	sql, args, err := r.sb.Insert("posts").
		Columns("author_id", "title", "body", "status").
		Values(post.AuthorID, post.Title, post.Body, models.PostStatusDraft).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("failed to build create post query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create post query")
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return id, nil
}

// GetPostByID retrieves a post by ID
func (r *PostRepository) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := r.sb.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		logger.Error().Err(err).Int64("postID", id).Msg("Error scanning post row")
		return nil, fmt.Errorf("error getting post by ID: %w", err)
	}

	return post, nil
}

// ListPosts retrieves posts, newest published first. With publishedOnly unset
// (author/admin view), drafts are included.
func (r *PostRepository) ListPosts(ctx context.Context, authorID int64, publishedOnly bool, offset uint64, limit int) ([]*models.Post, int64, error) {
	base := r.sb.Select(postColumns...).From("posts")
	countBase := r.sb.Select("COUNT(*)").From("posts")

	if authorID > 0 {
		base = base.Where(squirrel.Eq{"author_id": authorID})
		countBase = countBase.Where(squirrel.Eq{"author_id": authorID})
	}
	if publishedOnly {
		base = base.Where(squirrel.Eq{"status": models.PostStatusPublished})
		countBase = countBase.Where(squirrel.Eq{"status": models.PostStatusPublished})
	}

	sql, args, err := base.OrderBy("created_at DESC").Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list posts query")
		return nil, 0, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	countSql, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count posts query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	return posts, total, nil
}

// UpdatePost updates a post's editable fields
func (r *PostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	sql, args, err := r.sb.Update("posts").
		SetMap(map[string]interface{}{
			"title":      post.Title,
			"body":       post.Body,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update post query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", post.ID).Msg("Error executing update post query")
		return fmt.Errorf("error updating post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// PublishPost moves a draft post to published. published_at is only filled
// the first time; re-publishing after an unpublish keeps the original stamp.
func (r *PostRepository) PublishPost(ctx context.Context, id int64) error {
	sql := `UPDATE posts
		SET status = $2,
			published_at = COALESCE(published_at, $3),
			updated_at = $3
		WHERE id = $1 AND status = $4`

	cmdTag, err := r.db.Exec(ctx, sql, id, models.PostStatusPublished, time.Now(), models.PostStatusDraft)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error executing publish post query")
		return fmt.Errorf("error publishing post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// UnpublishPost moves a published post back to draft; published_at is untouched
func (r *PostRepository) UnpublishPost(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("posts").
		Set("status", models.PostStatusDraft).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": models.PostStatusPublished}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build unpublish post query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error executing unpublish post query")
		return fmt.Errorf("error unpublishing post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// IncrementViews bumps the view counter with a storage-level atomic add
func (r *PostRepository) IncrementViews(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error incrementing post views")
		return fmt.Errorf("error incrementing post views: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// ToggleLike flips the caller's like on a post inside one transaction: the
// membership row in post_likes and the denormalized counter move together,
// so concurrent toggles cannot drift the count. Returns the resulting state.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID int64) (liked bool, likes int64, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin toggle like transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	cmdTag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("error removing post like: %w", err)
	}

	if cmdTag.RowsAffected() > 0 {
		// Was liked; the delete above is the toggle-off
		err = tx.QueryRow(ctx,
			`UPDATE posts SET likes = likes - 1 WHERE id = $1 RETURNING likes`, postID).Scan(&likes)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = apperrors.ErrPostNotFound
			}
			return false, 0, err
		}
	} else {
		_, err = tx.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
		if err != nil {
			return false, 0, fmt.Errorf("error inserting post like: %w", err)
		}
		liked = true
		err = tx.QueryRow(ctx,
			`UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`, postID).Scan(&likes)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = apperrors.ErrPostNotFound
			}
			return false, 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to commit toggle like transaction: %w", err)
	}

	return liked, likes, nil
}

// DeletePost deletes a post by ID
func (r *PostRepository) DeletePost(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("postID", id).Msg("Error executing delete post query")
		return fmt.Errorf("error deleting post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}
