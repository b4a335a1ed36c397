package dto

// CreateCourseRequest represents course creation data.
// TeacherID is optional and admin-only: an admin may create a course on a
// teacher's behalf, in which case createdBy records the admin.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=200"`
	Description *string `json:"description,omitempty"`
	Level       string  `json:"level" binding:"required,oneof=A1 A2 B1 B2 C1 C2"`
	TeacherID   int64   `json:"teacherId,omitempty"`
}

// UpdateCourseRequest represents course update data. Any of these fields is a
// material edit: an approved course falls back to pending approval.
type UpdateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=200"`
	Description *string `json:"description,omitempty"`
	Level       string  `json:"level" binding:"required,oneof=A1 A2 B1 B2 C1 C2"`
}

// UpdateCourseStatusRequest changes the owner-controlled publication axis
type UpdateCourseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published archived"`
}

// RejectCourseRequest carries the admin's rejection reason
type RejectCourseRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}
