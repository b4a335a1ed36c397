package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleTeacher RoleType = "teacher"
	RoleAdmin   RoleType = "admin"
)

// AuthProvider identifies how the account was created
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// CourseStatus is the owner-controlled publication axis of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// ApprovalStatus is the admin-controlled gate on a course, independent of CourseStatus
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// LessonStatus defines lesson visibility; only published lessons count toward the course total
type LessonStatus string

const (
	LessonStatusDraft     LessonStatus = "draft"
	LessonStatusPublished LessonStatus = "published"
)

// PostStatus defines blog post visibility
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// ContentType enumerates the kinds of content comments can attach to.
// Adding a kind requires a case in every switch over ContentType; the
// repositories return ErrUnsupportedContentType for anything else.
type ContentType string

const (
	ContentTypePost   ContentType = "post"
	ContentTypeLesson ContentType = "lesson"
)

// ValidContentType reports whether t is a supported content kind.
func ValidContentType(t ContentType) bool {
	switch t {
	case ContentTypePost, ContentTypeLesson:
		return true
	}
	return false
}

// ReactionKind is a comment reaction; a user holds at most one per comment
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ValidReactionKind reports whether k is a supported reaction kind.
func ValidReactionKind(k ReactionKind) bool {
	return k == ReactionLike || k == ReactionDislike
}
