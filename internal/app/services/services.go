package services

import (
	"context"
	"time"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/repositories"
)

// Services defined in this package:
// - AuthService: registration, login, token refresh, email verification
// - UserService: admin user management and study-activity tracking
// - CourseService: course CRUD, publication status and the approval workflow
// - LessonService: lesson CRUD with course lessons_count synchronization
// - PostService: blog post lifecycle, views and likes
// - CommentService: threaded comments, reactions and moderation

// Actor identifies the authenticated caller of a service operation
type Actor struct {
	ID   int64
	Role models.RoleType
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// The store interfaces below describe what each service needs from the
// persistence layer. The concrete repositories satisfy them; tests swap in
// in-memory fakes.

// UserStore is the persistence surface for user accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, offset uint64, limit int) ([]*models.User, int64, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	UpdateLastStudyDate(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	SetEmailVerified(ctx context.Context, id int64) error
}

// TokenStore is the persistence surface for refresh and verification tokens
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*repositories.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	SaveVerificationToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, token string) (int64, error)
}

// CourseStore is the persistence surface for courses
type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter repositories.CourseFilter, offset uint64, limit int) ([]*models.Course, int64, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error
	SetPendingApproval(ctx context.Context, id int64) error
	ApproveCourse(ctx context.Context, id, adminID int64) error
	RejectCourse(ctx context.Context, id, adminID int64, reason string) error
	RecomputeLessonsCount(ctx context.Context, courseID int64) (bool, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// LessonStore is the persistence surface for lessons
type LessonStore interface {
	CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error)
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListLessonsByCourse(ctx context.Context, courseID int64, publishedOnly bool) ([]*models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateStatus(ctx context.Context, id int64, status models.LessonStatus) error
	DeleteLesson(ctx context.Context, id int64) error
}

// PostStore is the persistence surface for blog posts
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) (int64, error)
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context, authorID int64, publishedOnly bool, offset uint64, limit int) ([]*models.Post, int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	PublishPost(ctx context.Context, id int64) error
	UnpublishPost(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (liked bool, likes int64, err error)
	DeletePost(ctx context.Context, id int64) error
}

// CommentStore is the persistence surface for comments and reactions
type CommentStore interface {
	ContentExists(ctx context.Context, contentType models.ContentType, contentID int64) (bool, error)
	GetCommentByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByContent(ctx context.Context, contentType models.ContentType, contentID int64) ([]*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) (int64, error)
	SoftDelete(ctx context.Context, id int64) error
	UpdateBody(ctx context.Context, id int64, body string) error
	Report(ctx context.Context, id int64, reason string) error
	SetApproval(ctx context.Context, id int64, approved bool) error
	ToggleReaction(ctx context.Context, commentID, userID int64, kind models.ReactionKind) (models.ReactionKind, int, int, error)
}
