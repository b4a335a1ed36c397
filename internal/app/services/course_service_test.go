package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguahub/linguahub-backend/internal/app/events"
	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

var (
	teacherActor = Actor{ID: 1, Role: models.RoleTeacher}
	otherTeacher = Actor{ID: 2, Role: models.RoleTeacher}
	studentActor = Actor{ID: 5, Role: models.RoleStudent}
	adminActor   = Actor{ID: 9, Role: models.RoleAdmin}
)

func newCourseService(store *fakeCourseStore) CourseService {
	return NewCourseService(store, events.NewBus())
}

func createTestCourse(t *testing.T, svc CourseService, actor Actor) *models.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), actor, &dto.CreateCourseRequest{
		Title: "English for Beginners",
		Level: "A1",
	})
	require.NoError(t, err)
	return course
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("teacher creates own course in draft and pending state", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		course := createTestCourse(t, svc, teacherActor)

		assert.Equal(t, teacherActor.ID, course.TeacherID)
		assert.Equal(t, teacherActor.ID, course.CreatedBy)
		assert.Equal(t, models.CourseStatusDraft, course.Status)
		assert.Equal(t, models.ApprovalPending, course.AdminApproval)
	})

	t.Run("teacher cannot create a course for someone else", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		_, err := svc.CreateCourse(ctx, teacherActor, &dto.CreateCourseRequest{
			Title:     "Not Mine",
			Level:     "B1",
			TeacherID: otherTeacher.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("admin creates on behalf of a teacher", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		course, err := svc.CreateCourse(ctx, adminActor, &dto.CreateCourseRequest{
			Title:     "Business English",
			Level:     "C1",
			TeacherID: teacherActor.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, teacherActor.ID, course.TeacherID)
		assert.Equal(t, adminActor.ID, course.CreatedBy)
	})

	t.Run("admin must name the owning teacher", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		_, err := svc.CreateCourse(ctx, adminActor, &dto.CreateCourseRequest{
			Title: "Orphan Course",
			Level: "B2",
		})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("students cannot create courses", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		_, err := svc.CreateCourse(ctx, studentActor, &dto.CreateCourseRequest{
			Title: "Student Course",
			Level: "A2",
		})
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("level must be a CEFR label", func(t *testing.T) {
		svc := newCourseService(newFakeCourseStore())
		_, err := svc.CreateCourse(ctx, teacherActor, &dto.CreateCourseRequest{
			Title: "Bad Level",
			Level: "Z9",
		})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestGetCourseVisibility(t *testing.T) {
	ctx := context.Background()
	store := newFakeCourseStore()
	svc := newCourseService(store)
	course := createTestCourse(t, svc, teacherActor)

	t.Run("hidden course reads as not found to students", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, studentActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("owner and admin see the hidden course", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, teacherActor, course.ID)
		require.NoError(t, err)
		_, err = svc.GetCourse(ctx, adminActor, course.ID)
		require.NoError(t, err)
	})

	t.Run("published alone is not enough", func(t *testing.T) {
		store.courses[course.ID].Status = models.CourseStatusPublished
		_, err := svc.GetCourse(ctx, studentActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("published and approved is visible to students", func(t *testing.T) {
		store.courses[course.ID].AdminApproval = models.ApprovalApproved
		got, err := svc.GetCourse(ctx, studentActor, course.ID)
		require.NoError(t, err)
		assert.Equal(t, course.ID, got.ID)
	})
}

func TestListCoursesByRole(t *testing.T) {
	ctx := context.Background()
	store := newFakeCourseStore()
	svc := newCourseService(store)

	hidden := createTestCourse(t, svc, teacherActor)
	visible := createTestCourse(t, svc, teacherActor)
	store.courses[visible.ID].Status = models.CourseStatusPublished
	store.courses[visible.ID].AdminApproval = models.ApprovalApproved
	foreign := createTestCourse(t, svc, otherTeacher)
	_ = hidden
	_ = foreign

	t.Run("students get only the visible set", func(t *testing.T) {
		courses, total, err := svc.ListCourses(ctx, studentActor, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, courses, 1)
		assert.Equal(t, visible.ID, courses[0].ID)
	})

	t.Run("teachers get their own courses regardless of state", func(t *testing.T) {
		courses, total, err := svc.ListCourses(ctx, teacherActor, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, c := range courses {
			assert.Equal(t, teacherActor.ID, c.TeacherID)
		}
	})

	t.Run("admins get everything", func(t *testing.T) {
		_, total, err := svc.ListCourses(ctx, adminActor, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestUpdateCourseDemotesApproval(t *testing.T) {
	ctx := context.Background()
	store := newFakeCourseStore()
	svc := newCourseService(store)
	course := createTestCourse(t, svc, teacherActor)
	store.courses[course.ID].AdminApproval = models.ApprovalApproved

	updated, err := svc.UpdateCourse(ctx, teacherActor, course.ID, &dto.UpdateCourseRequest{
		Title: "English for Beginners, 2nd Edition",
		Level: "A1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, updated.AdminApproval)
	assert.Equal(t, models.ApprovalPending, store.courses[course.ID].AdminApproval)
}

func TestSubmitForApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("course without a published lesson is rejected", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		err := svc.SubmitForApproval(ctx, teacherActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("archived course cannot be submitted", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)
		store.courses[course.ID].Status = models.CourseStatusArchived
		store.courses[course.ID].LessonsCount = 2

		err := svc.SubmitForApproval(ctx, teacherActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("rejected course with lessons returns to pending", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)
		store.courses[course.ID].AdminApproval = models.ApprovalRejected
		store.courses[course.ID].LessonsCount = 1

		require.NoError(t, svc.SubmitForApproval(ctx, teacherActor, course.ID))
		assert.Equal(t, models.ApprovalPending, store.courses[course.ID].AdminApproval)
	})

	t.Run("submitting an already-pending course is a no-op", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)
		store.courses[course.ID].LessonsCount = 1

		require.NoError(t, svc.SubmitForApproval(ctx, teacherActor, course.ID))
		assert.Equal(t, models.ApprovalPending, store.courses[course.ID].AdminApproval)
	})

	t.Run("strangers cannot submit", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)
		store.courses[course.ID].LessonsCount = 1

		err := svc.SubmitForApproval(ctx, otherTeacher, course.ID)
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestApproveAndReject(t *testing.T) {
	ctx := context.Background()

	t.Run("pending course can be approved once", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		require.NoError(t, svc.Approve(ctx, adminActor.ID, course.ID))
		assert.Equal(t, models.ApprovalApproved, store.courses[course.ID].AdminApproval)
		require.NotNil(t, store.courses[course.ID].AdminApprovedBy)
		assert.Equal(t, adminActor.ID, *store.courses[course.ID].AdminApprovedBy)
		assert.NotNil(t, store.courses[course.ID].AdminApprovedAt)

		err := svc.Approve(ctx, adminActor.ID, course.ID)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		require.NoError(t, svc.Reject(ctx, adminActor.ID, course.ID, "lesson two has no audio"))
		assert.Equal(t, models.ApprovalRejected, store.courses[course.ID].AdminApproval)
		require.NotNil(t, store.courses[course.ID].AdminRejectionReason)
		assert.Equal(t, "lesson two has no audio", *store.courses[course.ID].AdminRejectionReason)
		assert.Nil(t, store.courses[course.ID].AdminApprovedAt)
	})

	t.Run("demotion clears the approval stamp", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		require.NoError(t, svc.Approve(ctx, adminActor.ID, course.ID))
		require.NotNil(t, store.courses[course.ID].AdminApprovedAt)

		_, err := svc.UpdateCourse(ctx, teacherActor, course.ID, &dto.UpdateCourseRequest{
			Title: "English for Beginners, revised",
			Level: "A1",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalPending, store.courses[course.ID].AdminApproval)
		assert.Nil(t, store.courses[course.ID].AdminApprovedAt)
		assert.Nil(t, store.courses[course.ID].AdminApprovedBy)
	})

	t.Run("rejection demands a reason", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		err := svc.Reject(ctx, adminActor.ID, course.ID, "   ")
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("rejected course cannot be decided again", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		require.NoError(t, svc.Reject(ctx, adminActor.ID, course.ID, "too short"))
		err := svc.Approve(ctx, adminActor.ID, course.ID)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("course with lessons is not deleted", func(t *testing.T) {
		lessons := newFakeLessonStore()
		store := newFakeCourseStore()
		store.lessons = lessons
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)
		_, err := lessons.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, TeacherID: teacherActor.ID, Title: "Greetings", Content: "Hello"})
		require.NoError(t, err)

		err = svc.DeleteCourse(ctx, teacherActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrCourseHasLessons)
	})

	t.Run("empty course is deleted", func(t *testing.T) {
		store := newFakeCourseStore()
		svc := newCourseService(store)
		course := createTestCourse(t, svc, teacherActor)

		require.NoError(t, svc.DeleteCourse(ctx, teacherActor, course.ID))
		_, err := svc.GetCourse(ctx, teacherActor, course.ID)
		require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})
}

// TestCoursePublicationWorkflow walks the whole path from a fresh draft to a
// course students can see: add a lesson, publish it, pass admin review and
// flip the publication status.
func TestCoursePublicationWorkflow(t *testing.T) {
	ctx := context.Background()
	lessons := newFakeLessonStore()
	courses := newFakeCourseStore()
	courses.lessons = lessons
	courseSvc := newCourseService(courses)
	lessonSvc := NewLessonService(lessons, courses)

	course := createTestCourse(t, courseSvc, teacherActor)

	lesson, err := lessonSvc.CreateLesson(ctx, teacherActor, course.ID, &dto.CreateLessonRequest{
		Title:   "Lesson 1: Greetings",
		Content: "Hello, goodbye, good morning.",
	})
	require.NoError(t, err)

	// A draft lesson does not count toward submission
	err = courseSvc.SubmitForApproval(ctx, teacherActor, course.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)

	require.NoError(t, lessonSvc.UpdateStatus(ctx, teacherActor, lesson.ID, models.LessonStatusPublished))
	assert.Equal(t, 1, courses.courses[course.ID].LessonsCount)

	require.NoError(t, courseSvc.SubmitForApproval(ctx, teacherActor, course.ID))
	require.NoError(t, courseSvc.Approve(ctx, adminActor.ID, course.ID))
	require.NotNil(t, courses.courses[course.ID].AdminApprovedAt)
	require.NoError(t, courseSvc.UpdateStatus(ctx, teacherActor, course.ID, models.CourseStatusPublished))

	got, err := courseSvc.GetCourse(ctx, studentActor, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, got.Status)
	assert.Equal(t, models.ApprovalApproved, got.AdminApproval)

	visible, err := lessonSvc.ListLessons(ctx, studentActor, course.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, lesson.ID, visible[0].ID)
}
