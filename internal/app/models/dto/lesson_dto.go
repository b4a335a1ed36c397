package dto

// CreateLessonRequest represents lesson creation data. Position is optional;
// when omitted the lesson is appended after the course's last position.
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=200"`
	Content  string `json:"content" binding:"required"`
	Position *int   `json:"position,omitempty" binding:"omitempty,min=1"`
}

// UpdateLessonRequest represents lesson update data
type UpdateLessonRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=200"`
	Content  string `json:"content" binding:"required"`
	Position *int   `json:"position,omitempty" binding:"omitempty,min=1"`
}

// UpdateLessonStatusRequest moves a lesson between draft and published
type UpdateLessonStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft published"`
}
