package models

import (
	"time"
)

// Lesson belongs to exactly one course. TeacherID is denormalized from the
// course so ownership checks don't need a join. Position determines display
// order within the course; ties fall back to creation order.
type Lesson struct {
	ID          int64        `json:"id" db:"id"`
	CourseID    int64        `json:"courseId" db:"course_id"`
	TeacherID   int64        `json:"teacherId" db:"teacher_id"`
	Title       string       `json:"title" db:"title"`
	Content     string       `json:"content" db:"content"`
	Status      LessonStatus `json:"status" db:"status"`
	Position    int          `json:"position" db:"position"`
	CommentsCnt int          `json:"commentsCnt" db:"comments_cnt"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}
