package models

import (
	"time"
)

// Course represents a teacher-owned course made of ordered lessons.
//
// Visibility is governed by two independent axes: Status (owner-controlled)
// and AdminApproval (admin-controlled). A course is visible to students only
// when Status is published AND AdminApproval is approved.
type Course struct {
	ID                   int64          `json:"id" db:"id"`
	TeacherID            int64          `json:"teacherId" db:"teacher_id"`                              // Owning teacher
	CreatedBy            int64          `json:"createdBy" db:"created_by"`                              // May differ from TeacherID when created by an admin on the teacher's behalf
	Title                string         `json:"title" db:"title"`
	Description          *string        `json:"description,omitempty" db:"description"`                 // Nullable
	Level                string         `json:"level" db:"level" example:"B1"`                          // CEFR level label
	Status               CourseStatus   `json:"status" db:"status"`
	AdminApproval        ApprovalStatus `json:"adminApproval" db:"admin_approval"`
	AdminApprovedAt      *time.Time     `json:"adminApprovedAt,omitempty" db:"admin_approved_at"`       // Set only on transition into approved
	AdminApprovedBy      *int64         `json:"adminApprovedBy,omitempty" db:"admin_approved_by"`
	AdminRejectionReason *string        `json:"adminRejectionReason,omitempty" db:"admin_rejection_reason"`
	LessonsCount         int            `json:"lessonsCount" db:"lessons_count"`                        // Count of lessons with status=published, kept by recompute-on-trigger
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Teacher *User `json:"teacher,omitempty"`
}
