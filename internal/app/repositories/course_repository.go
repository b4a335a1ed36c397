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
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

var courseColumns = []string{
	"id", "teacher_id", "created_by", "title", "description", "level",
	"status", "admin_approval", "admin_approved_at", "admin_approved_by",
	"admin_rejection_reason", "lessons_count", "created_at", "updated_at",
}

// CourseFilter narrows course listings
type CourseFilter struct {
	TeacherID   int64 // 0 means any teacher
	OnlyVisible bool  // restrict to published + approved courses
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID, &course.TeacherID, &course.CreatedBy, &course.Title, &course.Description,
		&course.Level, &course.Status, &course.AdminApproval, &course.AdminApprovedAt,
		&course.AdminApprovedBy, &course.AdminRejectionReason, &course.LessonsCount,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// CreateCourse creates a new course in draft state with pending approval
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("teacher_id", "created_by", "title", "description", "level", "status", "admin_approval").
		Values(course.TeacherID, course.CreatedBy, course.Title, helpers.GetNullString(course.Description), course.Level,
			models.CourseStatusDraft, models.ApprovalPending).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetCourseByID retrieves a course by ID
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// ListCourses retrieves courses matching the filter, newest first
func (r *CourseRepository) ListCourses(ctx context.Context, filter CourseFilter, offset uint64, limit int) ([]*models.Course, int64, error) {
	base := r.sb.Select(courseColumns...).From("courses")
	countBase := r.sb.Select("COUNT(*)").From("courses")

	if filter.TeacherID > 0 {
		base = base.Where(squirrel.Eq{"teacher_id": filter.TeacherID})
		countBase = countBase.Where(squirrel.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.OnlyVisible {
		visible := squirrel.Eq{
			"status":         models.CourseStatusPublished,
			"admin_approval": models.ApprovalApproved,
		}
		base = base.Where(visible)
		countBase = countBase.Where(visible)
	}

	sql, args, err := base.OrderBy("created_at DESC").Offset(offset).Limit(uint64(limit)).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, 0, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during list")
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	countSql, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	return courses, total, nil
}

// UpdateCourse updates the editable fields of a course and sets the approval
// axis in the same statement so a material edit and its approval demotion are
// one atomic write. A non-approved course never carries approval stamps.
func (r *CourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	setMap := map[string]interface{}{
		"title":          course.Title,
		"description":    helpers.GetNullString(course.Description),
		"level":          course.Level,
		"admin_approval": course.AdminApproval,
		"updated_at":     time.Now(),
	}
	if course.AdminApproval != models.ApprovalApproved {
		setMap["admin_approved_at"] = nil
		setMap["admin_approved_by"] = nil
	}

	sql, args, err := r.sb.Update("courses").
		SetMap(setMap).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// UpdateStatus changes the owner-controlled publication axis
func (r *CourseRepository) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	sql, args, err := r.sb.Update("courses").
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update course status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing update course status query")
		return fmt.Errorf("error updating course status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetPendingApproval moves the approval axis to pending, clearing any previous
// decision stamps. Used for submission, resubmission and material-edit demotion.
func (r *CourseRepository) SetPendingApproval(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"admin_approval":         models.ApprovalPending,
			"admin_approved_at":      nil,
			"admin_approved_by":      nil,
			"admin_rejection_reason": nil,
			"updated_at":             time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build set pending approval query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing set pending approval query")
		return fmt.Errorf("error setting pending approval: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// ApproveCourse stamps the approval decision. The WHERE clause requires the
// pending state, so a stale decision (another admin decided first) affects
// zero rows and reports ErrInvalidState instead of silently overwriting.
func (r *CourseRepository) ApproveCourse(ctx context.Context, id, adminID int64) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"admin_approval":         models.ApprovalApproved,
			"admin_approved_at":      time.Now(),
			"admin_approved_by":      adminID,
			"admin_rejection_reason": nil,
			"updated_at":             time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "admin_approval": models.ApprovalPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build approve course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing approve course query")
		return fmt.Errorf("error approving course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// RejectCourse stores the rejection decision; same pending guard as ApproveCourse
func (r *CourseRepository) RejectCourse(ctx context.Context, id, adminID int64, reason string) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"admin_approval":         models.ApprovalRejected,
			"admin_rejection_reason": reason,
			"updated_at":             time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "admin_approval": models.ApprovalPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build reject course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing reject course query")
		return fmt.Errorf("error rejecting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// RecomputeLessonsCount recounts the course's published lessons in a single
// statement. The recount is idempotent, so racing lesson mutations always
// converge on the true count with the last trigger. A zero row count means
// the course row is gone (orphaned lesson); the caller logs and moves on.
func (r *CourseRepository) RecomputeLessonsCount(ctx context.Context, courseID int64) (bool, error) {
	sql := `UPDATE courses
		SET lessons_count = (
			SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND status = $2
		), updated_at = $3
		WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, sql, courseID, models.LessonStatusPublished, time.Now())
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error recomputing lessons count")
		return false, fmt.Errorf("error recomputing lessons count: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// DeleteCourse deletes a course. Courses with remaining lessons are rejected;
// lessons must be removed explicitly first.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	var hasLessons bool
	checkSql, checkArgs, err := r.sb.Select("1").
		From("lessons").
		Where(squirrel.Eq{"course_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build check lessons query: %w", err)
	}

	err = r.db.QueryRow(ctx, checkSql, checkArgs...).Scan(&hasLessons)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error checking associated lessons")
		return fmt.Errorf("error checking associated lessons: %w", err)
	}

	if hasLessons {
		return apperrors.ErrCourseHasLessons
	}

	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
