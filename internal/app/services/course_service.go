package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguahub/linguahub-backend/internal/app/events"
	"github.com/linguahub/linguahub-backend/internal/app/lifecycle"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/app/repositories"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/helpers"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, actor Actor, req *dto.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, actor Actor, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, actor Actor, page, size int) ([]*models.Course, int64, error)
	UpdateCourse(ctx context.Context, actor Actor, id int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	UpdateStatus(ctx context.Context, actor Actor, id int64, status models.CourseStatus) error
	DeleteCourse(ctx context.Context, actor Actor, id int64) error
	SubmitForApproval(ctx context.Context, actor Actor, id int64) error
	Approve(ctx context.Context, adminID, id int64) error
	Reject(ctx context.Context, adminID, id int64, reason string) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo CourseStore
	eventBus   *events.Bus
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore, eventBus *events.Bus) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		eventBus:   eventBus,
	}
}

// canModify reports whether the actor may mutate the course
func (s *courseServiceImpl) canModify(actor Actor, course *models.Course) bool {
	return actor.IsAdmin() || course.TeacherID == actor.ID
}

// validateCourse validates course fields shared by create and update
func (s *courseServiceImpl) validateCourse(title, level string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	switch level {
	case "A1", "A2", "B1", "B2", "C1", "C2":
	default:
		return fmt.Errorf("%w: level must be a CEFR level (A1-C2)", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateCourse creates a new course in draft/pending state. Teachers create
// their own courses; an admin may create one on a teacher's behalf via
// req.TeacherID, with created_by recording the admin.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, actor Actor, req *dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req.Title, req.Level); err != nil {
		return nil, err
	}

	teacherID := actor.ID
	switch {
	case actor.Role == models.RoleTeacher:
		if req.TeacherID != 0 && req.TeacherID != actor.ID {
			return nil, apperrors.NewForbiddenError("teachers can only create their own courses")
		}
	case actor.IsAdmin():
		if req.TeacherID <= 0 {
			return nil, fmt.Errorf("%w: teacherId is required when an admin creates a course", apperrors.ErrValidationFailed)
		}
		teacherID = req.TeacherID
	default:
		return nil, apperrors.NewForbiddenError("only teachers and admins can create courses")
	}

	course := &models.Course{
		TeacherID:     teacherID,
		CreatedBy:     actor.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Level:         req.Level,
		Status:        models.CourseStatusDraft,
		AdminApproval: models.ApprovalPending,
	}

	id, err := s.courseRepo.CreateCourse(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	course.ID = id

	return course, nil
}

// GetCourse retrieves a course. Students only see publicly visible courses;
// a hidden course reads as not found to them.
func (s *courseServiceImpl) GetCourse(ctx context.Context, actor Actor, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if !lifecycle.IsPubliclyVisible(course.Status, course.AdminApproval) && !s.canModify(actor, course) {
		return nil, apperrors.ErrCourseNotFound
	}

	return course, nil
}

// ListCourses lists courses according to the actor's role: students get the
// publicly visible set, teachers their own courses, admins everything.
func (s *courseServiceImpl) ListCourses(ctx context.Context, actor Actor, page, size int) ([]*models.Course, int64, error) {
	filter := repositories.CourseFilter{}
	switch actor.Role {
	case models.RoleStudent:
		filter.OnlyVisible = true
	case models.RoleTeacher:
		filter.TeacherID = actor.ID
	case models.RoleAdmin:
	default:
		filter.OnlyVisible = true
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	courses, total, err := s.courseRepo.ListCourses(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}

	return courses, total, nil
}

// UpdateCourse updates a course's descriptive fields. Title, description and
// level are material: an approved course falls back to pending approval.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, actor Actor, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req.Title, req.Level); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if !s.canModify(actor, course) {
		return nil, apperrors.ErrPermissionDenied
	}

	course.Title = strings.TrimSpace(req.Title)
	course.Description = req.Description
	course.Level = req.Level
	course.AdminApproval = lifecycle.DemoteOnMaterialEdit(course.AdminApproval)

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	return course, nil
}

// UpdateStatus moves the owner-controlled publication axis. Publishing does
// not bypass the approval gate: a published course still needs admin
// approval to become visible.
func (s *courseServiceImpl) UpdateStatus(ctx context.Context, actor Actor, id int64, status models.CourseStatus) error {
	if !lifecycle.ValidCourseStatus(status) {
		return fmt.Errorf("%w: unknown course status %q", apperrors.ErrValidationFailed, status)
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if !s.canModify(actor, course) {
		return apperrors.ErrPermissionDenied
	}

	if course.Status == status {
		return nil
	}

	if err := s.courseRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("error updating course status: %w", err)
	}

	return nil
}

// DeleteCourse removes a course with no lessons left. A course that still
// has lessons is rejected rather than cascaded.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, actor Actor, id int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if !s.canModify(actor, course) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseHasLessons) || errors.Is(err, apperrors.ErrCourseNotFound) {
			return err
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	return nil
}

// SubmitForApproval moves a course into the admin review queue. Archived
// courses and courses without a published lesson are rejected; submitting an
// already-pending course re-validates and succeeds as a no-op.
func (s *courseServiceImpl) SubmitForApproval(ctx context.Context, actor Actor, id int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if !s.canModify(actor, course) {
		return apperrors.ErrPermissionDenied
	}

	if err := lifecycle.ValidateSubmit(course); err != nil {
		return err
	}

	if course.AdminApproval == models.ApprovalPending {
		return nil
	}

	if err := s.courseRepo.SetPendingApproval(ctx, id); err != nil {
		return fmt.Errorf("error submitting course for approval: %w", err)
	}

	s.eventBus.Publish(events.CourseEvent{
		Type:        events.CourseSubmitted,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		TeacherID:   course.TeacherID,
		ActorID:     actor.ID,
	})

	return nil
}

// Approve grants admin approval to a pending course
func (s *courseServiceImpl) Approve(ctx context.Context, adminID, id int64) error {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if err := lifecycle.ValidateApprovalDecision(course, models.ApprovalApproved); err != nil {
		return err
	}

	// The repository re-checks pending state inside the UPDATE, so a racing
	// second decision loses cleanly
	if err := s.courseRepo.ApproveCourse(ctx, id, adminID); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return err
		}
		return fmt.Errorf("error approving course: %w", err)
	}

	s.eventBus.Publish(events.CourseEvent{
		Type:        events.CourseApproved,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		TeacherID:   course.TeacherID,
		ActorID:     adminID,
	})

	return nil
}

// Reject declines a pending course with a reason for the teacher
func (s *courseServiceImpl) Reject(ctx context.Context, adminID, id int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejection reason cannot be empty", apperrors.ErrValidationFailed)
	}

	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error retrieving course: %w", err)
	}

	if err := lifecycle.ValidateApprovalDecision(course, models.ApprovalRejected); err != nil {
		return err
	}

	if err := s.courseRepo.RejectCourse(ctx, id, adminID, reason); err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return err
		}
		return fmt.Errorf("error rejecting course: %w", err)
	}

	s.eventBus.Publish(events.CourseEvent{
		Type:        events.CourseRejected,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		TeacherID:   course.TeacherID,
		ActorID:     adminID,
		Reason:      reason,
	})

	return nil
}
