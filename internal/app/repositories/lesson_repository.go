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

var lessonColumns = []string{
	"id", "course_id", "teacher_id", "title", "content", "status",
	"position", "comments_cnt", "created_at", "updated_at",
}

// LessonRepository handles lesson database operations
type LessonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	err := row.Scan(
		&lesson.ID, &lesson.CourseID, &lesson.TeacherID, &lesson.Title, &lesson.Content,
		&lesson.Status, &lesson.Position, &lesson.CommentsCnt, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// CreateLesson creates a new lesson. When the requested position is zero the
// lesson is appended after the course's current last position.
func (r *LessonRepository) CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error) {
	sql := `INSERT INTO lessons (course_id, teacher_id, title, content, status, position)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN $6 > 0 THEN $6
			ELSE (SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE course_id = $1) END)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, sql,
		lesson.CourseID, lesson.TeacherID, lesson.Title, lesson.Content, lesson.Status, lesson.Position,
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", lesson.CourseID).Msg("Error executing create lesson query")
		return 0, fmt.Errorf("error creating lesson: %w", err)
	}

	return id, nil
}

// GetLessonByID retrieves a lesson by ID
func (r *LessonRepository) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	lesson, err := scanLesson(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error scanning lesson row")
		return nil, fmt.Errorf("error getting lesson by ID: %w", err)
	}

	return lesson, nil
}

// ListLessonsByCourse retrieves a course's lessons in display order.
// With publishedOnly set, draft lessons are excluded (student view).
// Position ties fall back to creation order via the id column.
func (r *LessonRepository) ListLessonsByCourse(ctx context.Context, courseID int64, publishedOnly bool) ([]*models.Lesson, error) {
	base := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID})

	if publishedOnly {
		base = base.Where(squirrel.Eq{"status": models.LessonStatusPublished})
	}

	sql, args, err := base.OrderBy("position ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list lessons query")
		return nil, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	lessons := []*models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning lesson row during list")
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}

	return lessons, nil
}

// UpdateLesson updates a lesson's editable fields
func (r *LessonRepository) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Update("lessons").
		SetMap(map[string]interface{}{
			"title":      lesson.Title,
			"content":    lesson.Content,
			"position":   lesson.Position,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": lesson.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update lesson query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", lesson.ID).Msg("Error executing update lesson query")
		return fmt.Errorf("error updating lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// UpdateStatus moves a lesson between draft and published
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status models.LessonStatus) error {
	sql, args, err := r.sb.Update("lessons").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update lesson status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error executing update lesson status query")
		return fmt.Errorf("error updating lesson status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// DeleteLesson deletes a lesson by ID
func (r *LessonRepository) DeleteLesson(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("lessons").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete lesson query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error executing delete lesson query")
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}
