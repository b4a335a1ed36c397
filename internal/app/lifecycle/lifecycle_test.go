package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

func TestIsPubliclyVisible(t *testing.T) {
	statuses := []models.CourseStatus{
		models.CourseStatusDraft,
		models.CourseStatusPublished,
		models.CourseStatusArchived,
	}
	approvals := []models.ApprovalStatus{
		models.ApprovalPending,
		models.ApprovalApproved,
		models.ApprovalRejected,
	}

	for _, status := range statuses {
		for _, approval := range approvals {
			expected := status == models.CourseStatusPublished && approval == models.ApprovalApproved
			assert.Equal(t, expected, IsPubliclyVisible(status, approval),
				"status=%s approval=%s", status, approval)
		}
	}
}

func TestCanTransitionApproval(t *testing.T) {
	cases := []struct {
		from    models.ApprovalStatus
		to      models.ApprovalStatus
		allowed bool
	}{
		{models.ApprovalPending, models.ApprovalApproved, true},
		{models.ApprovalPending, models.ApprovalRejected, true},
		{models.ApprovalPending, models.ApprovalPending, false},
		{models.ApprovalRejected, models.ApprovalPending, true},
		{models.ApprovalRejected, models.ApprovalApproved, false},
		{models.ApprovalRejected, models.ApprovalRejected, false},
		{models.ApprovalApproved, models.ApprovalPending, true},
		{models.ApprovalApproved, models.ApprovalRejected, false},
		{models.ApprovalApproved, models.ApprovalApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransitionApproval(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidateSubmit(t *testing.T) {
	t.Run("draft course with published lessons is accepted", func(t *testing.T) {
		course := &models.Course{Status: models.CourseStatusDraft, LessonsCount: 2}
		require.NoError(t, ValidateSubmit(course))
	})

	t.Run("archived course is rejected", func(t *testing.T) {
		course := &models.Course{Status: models.CourseStatusArchived, LessonsCount: 3}
		err := ValidateSubmit(course)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("course without a published lesson is rejected", func(t *testing.T) {
		course := &models.Course{Status: models.CourseStatusDraft, LessonsCount: 0}
		err := ValidateSubmit(course)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestValidateApprovalDecision(t *testing.T) {
	t.Run("pending course can be approved", func(t *testing.T) {
		course := &models.Course{AdminApproval: models.ApprovalPending}
		require.NoError(t, ValidateApprovalDecision(course, models.ApprovalApproved))
	})

	t.Run("pending course can be rejected", func(t *testing.T) {
		course := &models.Course{AdminApproval: models.ApprovalPending}
		require.NoError(t, ValidateApprovalDecision(course, models.ApprovalRejected))
	})

	t.Run("approved course cannot be approved again", func(t *testing.T) {
		course := &models.Course{AdminApproval: models.ApprovalApproved}
		err := ValidateApprovalDecision(course, models.ApprovalApproved)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("rejected course cannot be decided without resubmission", func(t *testing.T) {
		course := &models.Course{AdminApproval: models.ApprovalRejected}
		err := ValidateApprovalDecision(course, models.ApprovalApproved)
		require.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestDemoteOnMaterialEdit(t *testing.T) {
	assert.Equal(t, models.ApprovalPending, DemoteOnMaterialEdit(models.ApprovalApproved))
	assert.Equal(t, models.ApprovalPending, DemoteOnMaterialEdit(models.ApprovalPending))
	assert.Equal(t, models.ApprovalRejected, DemoteOnMaterialEdit(models.ApprovalRejected))
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidCourseStatus(models.CourseStatusDraft))
	assert.True(t, ValidCourseStatus(models.CourseStatusPublished))
	assert.True(t, ValidCourseStatus(models.CourseStatusArchived))
	assert.False(t, ValidCourseStatus("deleted"))

	assert.True(t, ValidLessonStatus(models.LessonStatusDraft))
	assert.True(t, ValidLessonStatus(models.LessonStatusPublished))
	assert.False(t, ValidLessonStatus("archived"))
}
