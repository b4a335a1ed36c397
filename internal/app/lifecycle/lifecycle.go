// Package lifecycle holds the pure state rules for content publication:
// the course visibility predicate, the admin approval state machine and the
// submit-for-approval preconditions. Nothing here touches storage; services
// consult these rules and persist the outcome.
package lifecycle

import (
	"fmt"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

// IsPubliclyVisible reports whether a course in the given state is visible
// to students. Both axes must hold: the owner has published the course and
// an admin has approved it.
func IsPubliclyVisible(status models.CourseStatus, approval models.ApprovalStatus) bool {
	return status == models.CourseStatusPublished && approval == models.ApprovalApproved
}

// approvalTransitions is the full admin-approval state machine. A direct
// approved→rejected transition is absent on purpose: demotion always passes
// through pending first.
var approvalTransitions = map[models.ApprovalStatus][]models.ApprovalStatus{
	models.ApprovalPending:  {models.ApprovalApproved, models.ApprovalRejected},
	models.ApprovalRejected: {models.ApprovalPending},
	models.ApprovalApproved: {models.ApprovalPending},
}

// CanTransitionApproval reports whether the admin-approval axis may move
// from one state to another.
func CanTransitionApproval(from, to models.ApprovalStatus) bool {
	for _, allowed := range approvalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateSubmit checks the preconditions for submitting a course for admin
// approval: the course must not be archived and must carry at least one
// published lesson. Submitting an already-pending course is allowed; the
// caller treats it as a re-validated no-op.
func ValidateSubmit(course *models.Course) error {
	if course.Status == models.CourseStatusArchived {
		return fmt.Errorf("%w: archived courses cannot be submitted for approval", apperrors.ErrInvalidState)
	}
	if course.LessonsCount == 0 {
		return fmt.Errorf("%w: a course needs at least one published lesson before submission", apperrors.ErrInvalidState)
	}
	return nil
}

// ValidateApprovalDecision checks that an approve or reject decision is legal
// from the course's current approval state.
func ValidateApprovalDecision(course *models.Course, to models.ApprovalStatus) error {
	if course.AdminApproval != models.ApprovalPending {
		return fmt.Errorf("%w: approval decision requires pending state, course is %q",
			apperrors.ErrInvalidState, course.AdminApproval)
	}
	if !CanTransitionApproval(course.AdminApproval, to) {
		return fmt.Errorf("%w: cannot move approval from %q to %q",
			apperrors.ErrInvalidState, course.AdminApproval, to)
	}
	return nil
}

// DemoteOnMaterialEdit returns the approval state a course falls back to
// after a material edit (title, description, level, or any lesson change).
// Only approved courses are demoted; pending and rejected states are kept.
func DemoteOnMaterialEdit(current models.ApprovalStatus) models.ApprovalStatus {
	if current == models.ApprovalApproved {
		return models.ApprovalPending
	}
	return current
}

// ValidCourseStatus reports whether s is a recognized course status.
func ValidCourseStatus(s models.CourseStatus) bool {
	switch s {
	case models.CourseStatusDraft, models.CourseStatusPublished, models.CourseStatusArchived:
		return true
	}
	return false
}

// ValidLessonStatus reports whether s is a recognized lesson status.
func ValidLessonStatus(s models.LessonStatus) bool {
	return s == models.LessonStatusDraft || s == models.LessonStatusPublished
}
