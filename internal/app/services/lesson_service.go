package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguahub/linguahub-backend/internal/app/lifecycle"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// LessonService defines the interface for lesson-related operations
type LessonService interface {
	CreateLesson(ctx context.Context, actor Actor, courseID int64, req *dto.CreateLessonRequest) (*models.Lesson, error)
	GetLesson(ctx context.Context, actor Actor, id int64) (*models.Lesson, error)
	ListLessons(ctx context.Context, actor Actor, courseID int64) ([]*models.Lesson, error)
	UpdateLesson(ctx context.Context, actor Actor, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error)
	UpdateStatus(ctx context.Context, actor Actor, id int64, status models.LessonStatus) error
	DeleteLesson(ctx context.Context, actor Actor, id int64) error
}

// lessonServiceImpl implements the LessonService interface
type lessonServiceImpl struct {
	lessonRepo LessonStore
	courseRepo CourseStore
}

// NewLessonService creates a new lesson service instance
func NewLessonService(lessonRepo LessonStore, courseRepo CourseStore) LessonService {
	return &lessonServiceImpl{
		lessonRepo: lessonRepo,
		courseRepo: courseRepo,
	}
}

func (s *lessonServiceImpl) canModify(actor Actor, course *models.Course) bool {
	return actor.IsAdmin() || course.TeacherID == actor.ID
}

func (s *lessonServiceImpl) validateLesson(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// syncLessonsCount recomputes the course's published-lesson count after any
// lesson mutation. The recompute is one idempotent statement; racing
// mutations self-correct because the last writer recomputes the true count.
// A missing course row is a consistency warning, never a failure of the
// lesson mutation that triggered it.
func (s *lessonServiceImpl) syncLessonsCount(ctx context.Context, courseID int64) {
	found, err := s.courseRepo.RecomputeLessonsCount(ctx, courseID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to recompute lessons count")
		return
	}
	if !found {
		logger.Warn().Int64("courseID", courseID).Msg("Lessons reference a missing course; lessons count not updated")
	}
}

// demoteApprovalOnLessonChange drops an approved course back to pending.
// Lesson changes are material edits to the course content.
func (s *lessonServiceImpl) demoteApprovalOnLessonChange(ctx context.Context, course *models.Course) {
	if course.AdminApproval != models.ApprovalApproved {
		return
	}
	if err := s.courseRepo.SetPendingApproval(ctx, course.ID); err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Failed to demote course approval after lesson change")
	}
}

// getOwnedCourse loads the course and checks the actor may modify it
func (s *lessonServiceImpl) getOwnedCourse(ctx context.Context, actor Actor, courseID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if !s.canModify(actor, course) {
		return nil, apperrors.ErrPermissionDenied
	}
	return course, nil
}

// CreateLesson adds a lesson to a course the actor owns. New lessons start
// as drafts; position defaults to the end of the course.
func (s *lessonServiceImpl) CreateLesson(ctx context.Context, actor Actor, courseID int64, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validateLesson(req.Title, req.Content); err != nil {
		return nil, err
	}

	course, err := s.getOwnedCourse(ctx, actor, courseID)
	if err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:  courseID,
		TeacherID: course.TeacherID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Status:    models.LessonStatusDraft,
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}

	id, err := s.lessonRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, fmt.Errorf("error creating lesson: %w", err)
	}
	lesson.ID = id

	s.syncLessonsCount(ctx, courseID)
	s.demoteApprovalOnLessonChange(ctx, course)

	return lesson, nil
}

// GetLesson retrieves a lesson. Draft lessons read as not found to anyone
// but the owning teacher and admins, and so does any lesson under a course
// the actor cannot see.
func (s *lessonServiceImpl) GetLesson(ctx context.Context, actor Actor, id int64) (*models.Lesson, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid lesson ID", apperrors.ErrValidationFailed)
	}

	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}

	if actor.IsAdmin() || lesson.TeacherID == actor.ID {
		return lesson, nil
	}

	if lesson.Status != models.LessonStatusPublished {
		return nil, apperrors.ErrLessonNotFound
	}

	course, err := s.courseRepo.GetCourseByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			logger.Warn().Int64("lessonID", id).Int64("courseID", lesson.CourseID).
				Msg("Lesson references a missing course")
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if !lifecycle.IsPubliclyVisible(course.Status, course.AdminApproval) {
		return nil, apperrors.ErrLessonNotFound
	}

	return lesson, nil
}

// ListLessons lists a course's lessons in position order. Owners and admins
// see drafts; everyone else sees published lessons of a visible course.
func (s *lessonServiceImpl) ListLessons(ctx context.Context, actor Actor, courseID int64) ([]*models.Lesson, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	owner := s.canModify(actor, course)
	if !owner && !lifecycle.IsPubliclyVisible(course.Status, course.AdminApproval) {
		return nil, apperrors.ErrCourseNotFound
	}

	lessons, err := s.lessonRepo.ListLessonsByCourse(ctx, courseID, !owner)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}

	return lessons, nil
}

// UpdateLesson updates a lesson's content and position
func (s *lessonServiceImpl) UpdateLesson(ctx context.Context, actor Actor, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validateLesson(req.Title, req.Content); err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}

	course, err := s.getOwnedCourse(ctx, actor, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	lesson.Title = strings.TrimSpace(req.Title)
	lesson.Content = req.Content
	if req.Position != nil {
		lesson.Position = *req.Position
	}

	if err := s.lessonRepo.UpdateLesson(ctx, lesson); err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error updating lesson: %w", err)
	}

	s.demoteApprovalOnLessonChange(ctx, course)

	return lesson, nil
}

// UpdateStatus moves a lesson between draft and published and resynchronizes
// the course's published-lesson count.
func (s *lessonServiceImpl) UpdateStatus(ctx context.Context, actor Actor, id int64, status models.LessonStatus) error {
	if !lifecycle.ValidLessonStatus(status) {
		return fmt.Errorf("%w: unknown lesson status %q", apperrors.ErrValidationFailed, status)
	}

	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return apperrors.ErrLessonNotFound
		}
		return fmt.Errorf("error retrieving lesson: %w", err)
	}

	course, err := s.getOwnedCourse(ctx, actor, lesson.CourseID)
	if err != nil {
		return err
	}

	if lesson.Status == status {
		return nil
	}

	if err := s.lessonRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("error updating lesson status: %w", err)
	}

	s.syncLessonsCount(ctx, lesson.CourseID)
	s.demoteApprovalOnLessonChange(ctx, course)

	return nil
}

// DeleteLesson removes a lesson and resynchronizes the course count
func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, actor Actor, id int64) error {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return apperrors.ErrLessonNotFound
		}
		return fmt.Errorf("error retrieving lesson: %w", err)
	}

	course, err := s.getOwnedCourse(ctx, actor, lesson.CourseID)
	if err != nil {
		return err
	}

	if err := s.lessonRepo.DeleteLesson(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrLessonNotFound) {
			return apperrors.ErrLessonNotFound
		}
		return fmt.Errorf("error deleting lesson: %w", err)
	}

	s.syncLessonsCount(ctx, lesson.CourseID)
	s.demoteApprovalOnLessonChange(ctx, course)

	return nil
}
