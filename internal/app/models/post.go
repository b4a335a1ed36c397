package models

import (
	"time"
)

// Post is a blog entry authored by a teacher or admin.
//
// CommentsCnt, Views and Likes are denormalized counters mutated by atomic
// storage-level increments, never recomputed by full scans. PublishedAt is
// set on the first transition to published and never altered afterward.
type Post struct {
	ID          int64      `json:"id" db:"id"`
	AuthorID    int64      `json:"authorId" db:"author_id"`
	Title       string     `json:"title" db:"title"`
	Body        string     `json:"body" db:"body"`
	Status      PostStatus `json:"status" db:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	CommentsCnt int        `json:"commentsCnt" db:"comments_cnt"`
	Views       int64      `json:"views" db:"views"`
	Likes       int64      `json:"likes" db:"likes"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Author *User `json:"author,omitempty"`
}
