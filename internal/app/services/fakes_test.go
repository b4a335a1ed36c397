package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/repositories"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

// In-memory fakes of the store interfaces. They mirror the SQL semantics the
// concrete repositories implement, including the conditional approval updates
// and the denormalized counters, so service tests exercise real state rules.

type fakeCourseStore struct {
	mu      sync.Mutex
	nextID  int64
	courses map[int64]*models.Course
	lessons *fakeLessonStore
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*models.Course)}
}

func copyCourse(c *models.Course) *models.Course {
	cp := *c
	return &cp
}

func (f *fakeCourseStore) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	course.ID = f.nextID
	f.courses[course.ID] = copyCourse(course)
	return course.ID, nil
}

func (f *fakeCourseStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return copyCourse(course), nil
}

func (f *fakeCourseStore) ListCourses(ctx context.Context, filter repositories.CourseFilter, offset uint64, limit int) ([]*models.Course, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Course{}
	for _, course := range f.courses {
		if filter.TeacherID != 0 && course.TeacherID != filter.TeacherID {
			continue
		}
		if filter.OnlyVisible &&
			(course.Status != models.CourseStatusPublished || course.AdminApproval != models.ApprovalApproved) {
			continue
		}
		matched = append(matched, copyCourse(course))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if int(offset) >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeCourseStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	stored.Title = course.Title
	stored.Description = course.Description
	stored.Level = course.Level
	stored.AdminApproval = course.AdminApproval
	if stored.AdminApproval != models.ApprovalApproved {
		stored.AdminApprovedAt = nil
		stored.AdminApprovedBy = nil
	}
	return nil
}

func (f *fakeCourseStore) UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.Status = status
	return nil
}

func (f *fakeCourseStore) SetPendingApproval(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	course.AdminApproval = models.ApprovalPending
	course.AdminApprovedAt = nil
	course.AdminApprovedBy = nil
	course.AdminRejectionReason = nil
	return nil
}

func (f *fakeCourseStore) ApproveCourse(ctx context.Context, id, adminID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.AdminApproval != models.ApprovalPending {
		return apperrors.ErrInvalidState
	}
	now := time.Now()
	course.AdminApproval = models.ApprovalApproved
	course.AdminApprovedAt = &now
	course.AdminApprovedBy = &adminID
	return nil
}

func (f *fakeCourseStore) RejectCourse(ctx context.Context, id, adminID int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.AdminApproval != models.ApprovalPending {
		return apperrors.ErrInvalidState
	}
	course.AdminApproval = models.ApprovalRejected
	course.AdminRejectionReason = &reason
	return nil
}

func (f *fakeCourseStore) RecomputeLessonsCount(ctx context.Context, courseID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[courseID]
	if !ok {
		return false, nil
	}
	count := 0
	if f.lessons != nil {
		count = f.lessons.publishedCount(courseID)
	}
	course.LessonsCount = count
	return true, nil
}

func (f *fakeCourseStore) DeleteCourse(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if f.lessons != nil && f.lessons.lessonCount(id) > 0 {
		return apperrors.ErrCourseHasLessons
	}
	delete(f.courses, id)
	return nil
}

type fakeLessonStore struct {
	mu      sync.Mutex
	nextID  int64
	lessons map[int64]*models.Lesson
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: make(map[int64]*models.Lesson)}
}

func copyLesson(l *models.Lesson) *models.Lesson {
	cp := *l
	return &cp
}

func (f *fakeLessonStore) publishedCount(courseID int64) int {
	count := 0
	for _, lesson := range f.lessons {
		if lesson.CourseID == courseID && lesson.Status == models.LessonStatusPublished {
			count++
		}
	}
	return count
}

func (f *fakeLessonStore) lessonCount(courseID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, lesson := range f.lessons {
		if lesson.CourseID == courseID {
			count++
		}
	}
	return count
}

func (f *fakeLessonStore) CreateLesson(ctx context.Context, lesson *models.Lesson) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	lesson.ID = f.nextID
	if lesson.Position == 0 {
		pos := 1
		for _, l := range f.lessons {
			if l.CourseID == lesson.CourseID {
				pos++
			}
		}
		lesson.Position = pos
	}
	f.lessons[lesson.ID] = copyLesson(lesson)
	return lesson.ID, nil
}

func (f *fakeLessonStore) GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	return copyLesson(lesson), nil
}

func (f *fakeLessonStore) ListLessonsByCourse(ctx context.Context, courseID int64, publishedOnly bool) ([]*models.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Lesson{}
	for _, lesson := range f.lessons {
		if lesson.CourseID != courseID {
			continue
		}
		if publishedOnly && lesson.Status != models.LessonStatusPublished {
			continue
		}
		matched = append(matched, copyLesson(lesson))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Position != matched[j].Position {
			return matched[i].Position < matched[j].Position
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

func (f *fakeLessonStore) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.lessons[lesson.ID]
	if !ok {
		return apperrors.ErrLessonNotFound
	}
	stored.Title = lesson.Title
	stored.Content = lesson.Content
	stored.Position = lesson.Position
	return nil
}

func (f *fakeLessonStore) UpdateStatus(ctx context.Context, id int64, status models.LessonStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lesson, ok := f.lessons[id]
	if !ok {
		return apperrors.ErrLessonNotFound
	}
	lesson.Status = status
	return nil
}

func (f *fakeLessonStore) DeleteLesson(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return apperrors.ErrLessonNotFound
	}
	delete(f.lessons, id)
	return nil
}

type fakePostStore struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.Post
	likes  map[[2]int64]bool // (postID, userID)
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts: make(map[int64]*models.Post),
		likes: make(map[[2]int64]bool),
	}
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	return &cp
}

func (f *fakePostStore) CreatePost(ctx context.Context, post *models.Post) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = copyPost(post)
	return post.ID, nil
}

func (f *fakePostStore) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrPostNotFound
	}
	return copyPost(post), nil
}

func (f *fakePostStore) ListPosts(ctx context.Context, authorID int64, publishedOnly bool, offset uint64, limit int) ([]*models.Post, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Post{}
	for _, post := range f.posts {
		if authorID != 0 && post.AuthorID != authorID {
			continue
		}
		if publishedOnly && post.Status != models.PostStatusPublished {
			continue
		}
		matched = append(matched, copyPost(post))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if int(offset) >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakePostStore) UpdatePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[post.ID]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	stored.Title = post.Title
	stored.Body = post.Body
	return nil
}

func (f *fakePostStore) PublishPost(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	if post.Status != models.PostStatusDraft {
		return apperrors.ErrInvalidState
	}
	post.Status = models.PostStatusPublished
	return nil
}

func (f *fakePostStore) UnpublishPost(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	if post.Status != models.PostStatusPublished {
		return apperrors.ErrInvalidState
	}
	post.Status = models.PostStatusDraft
	return nil
}

func (f *fakePostStore) IncrementViews(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return apperrors.ErrPostNotFound
	}
	post.Views++
	return nil
}

func (f *fakePostStore) ToggleLike(ctx context.Context, postID, userID int64) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[postID]
	if !ok {
		return false, 0, apperrors.ErrPostNotFound
	}
	key := [2]int64{postID, userID}
	if f.likes[key] {
		delete(f.likes, key)
		post.Likes--
		return false, post.Likes, nil
	}
	f.likes[key] = true
	post.Likes++
	return true, post.Likes, nil
}

func (f *fakePostStore) DeletePost(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

type targetKey struct {
	contentType models.ContentType
	contentID   int64
}

type reactionKey struct {
	commentID int64
	userID    int64
}

type fakeCommentStore struct {
	mu        sync.Mutex
	nextID    int64
	comments  map[int64]*models.Comment
	reactions map[reactionKey]models.ReactionKind
	targets   map[targetKey]bool
	counts    map[targetKey]int
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{
		comments:  make(map[int64]*models.Comment),
		reactions: make(map[reactionKey]models.ReactionKind),
		targets:   make(map[targetKey]bool),
		counts:    make(map[targetKey]int),
	}
}

// addTarget registers a publicly visible post or lesson; anything not
// registered reads as an invalid comment target, drafts included
func (f *fakeCommentStore) addTarget(contentType models.ContentType, contentID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets[targetKey{contentType, contentID}] = true
}

func (f *fakeCommentStore) countFor(contentType models.ContentType, contentID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[targetKey{contentType, contentID}]
}

func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	cp.Replies = nil
	return &cp
}

func (f *fakeCommentStore) ContentExists(ctx context.Context, contentType models.ContentType, contentID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targets[targetKey{contentType, contentID}], nil
}

func (f *fakeCommentStore) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrCommentNotFound
	}
	return copyComment(comment), nil
}

func (f *fakeCommentStore) ListByContent(ctx context.Context, contentType models.ContentType, contentID int64) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*models.Comment{}
	for _, comment := range f.comments {
		if comment.ContentType == contentType && comment.ContentID == contentID {
			matched = append(matched, copyComment(comment))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (f *fakeCommentStore) CreateComment(ctx context.Context, comment *models.Comment) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := targetKey{comment.ContentType, comment.ContentID}
	if !f.targets[key] {
		return 0, apperrors.ErrCommentTargetNotFound
	}
	f.nextID++
	comment.ID = f.nextID
	f.comments[comment.ID] = copyComment(comment)
	f.counts[key]++
	return comment.ID, nil
}

func (f *fakeCommentStore) SoftDelete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}
	comment.IsDeleted = true
	return nil
}

func (f *fakeCommentStore) UpdateBody(ctx context.Context, id int64, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}
	comment.Body = body
	comment.IsEdited = true
	return nil
}

func (f *fakeCommentStore) Report(ctx context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return apperrors.ErrCommentNotFound
	}
	comment.IsReported = true
	comment.ReportReason = &reason
	return nil
}

func (f *fakeCommentStore) SetApproval(ctx context.Context, id int64, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return apperrors.ErrCommentNotFound
	}
	comment.IsApproved = approved
	return nil
}

func (f *fakeCommentStore) ToggleReaction(ctx context.Context, commentID, userID int64, kind models.ReactionKind) (models.ReactionKind, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[commentID]; !ok {
		return "", 0, 0, apperrors.ErrCommentNotFound
	}

	key := reactionKey{commentID, userID}
	result := kind
	switch f.reactions[key] {
	case kind:
		delete(f.reactions, key)
		result = ""
	default:
		f.reactions[key] = kind
	}

	likes, dislikes := 0, 0
	for k, v := range f.reactions {
		if k.commentID != commentID {
			continue
		}
		if v == models.ReactionLike {
			likes++
		} else {
			dislikes++
		}
	}
	return result, likes, dislikes, nil
}
