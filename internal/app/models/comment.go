package models

import (
	"time"
)

// Comment attaches to a (ContentType, ContentID) pair and supports one level
// of threaded replies via ParentID. Deletion is soft: the row stays in place
// with IsDeleted set, preserving thread structure and historical counts.
type Comment struct {
	ID           int64       `json:"id" db:"id"`
	ContentType  ContentType `json:"contentType" db:"content_type"`
	ContentID    int64       `json:"contentId" db:"content_id"`
	AuthorID     int64       `json:"authorId" db:"author_id"`
	ParentID     *int64      `json:"parentId,omitempty" db:"parent_id"`
	Body         string      `json:"body" db:"body"`
	IsDeleted    bool        `json:"isDeleted" db:"is_deleted"`
	DeletedAt    *time.Time  `json:"deletedAt,omitempty" db:"deleted_at"`
	IsApproved   bool        `json:"isApproved" db:"is_approved"`
	IsReported   bool        `json:"isReported" db:"is_reported"`
	ReportReason *string     `json:"reportReason,omitempty" db:"report_reason"`
	IsEdited     bool        `json:"isEdited" db:"is_edited"`
	EditedAt     *time.Time  `json:"editedAt,omitempty" db:"edited_at"`
	Likes        int         `json:"likes" db:"likes"`
	Dislikes     int         `json:"dislikes" db:"dislikes"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Author  *User      `json:"author,omitempty"`
	Replies []*Comment `json:"replies,omitempty"`
}

// CommentReaction is a user's reaction on a comment. The (CommentID, UserID)
// pair is the primary key in storage, so a user can never hold a like and a
// dislike on the same comment at once.
type CommentReaction struct {
	CommentID int64        `json:"commentId" db:"comment_id"`
	UserID    int64        `json:"userId" db:"user_id"`
	Kind      ReactionKind `json:"kind" db:"kind"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
