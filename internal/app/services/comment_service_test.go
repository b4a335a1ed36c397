package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/app/models/dto"
	"github.com/linguahub/linguahub-backend/internal/pkg/apperrors"
)

func newCommentFixture() (*fakeCommentStore, CommentService) {
	store := newFakeCommentStore()
	store.addTarget(models.ContentTypePost, 1)
	store.addTarget(models.ContentTypeLesson, 1)
	return store, NewCommentService(store)
}

func addComment(t *testing.T, svc CommentService, actor Actor, body string, parentID *int64) *models.Comment {
	t.Helper()
	comment, err := svc.AddComment(context.Background(), actor, &dto.CreateCommentRequest{
		ContentType: "post",
		ContentID:   1,
		Body:        body,
		ParentID:    parentID,
	})
	require.NoError(t, err)
	return comment
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("comment lands on an existing target", func(t *testing.T) {
		store, svc := newCommentFixture()
		comment := addComment(t, svc, studentActor, "great post", nil)

		assert.Equal(t, studentActor.ID, comment.AuthorID)
		assert.True(t, comment.IsApproved)
		assert.Equal(t, 1, store.countFor(models.ContentTypePost, 1))
	})

	t.Run("missing target is rejected", func(t *testing.T) {
		_, svc := newCommentFixture()
		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "post",
			ContentID:   42,
			Body:        "into the void",
		})
		require.ErrorIs(t, err, apperrors.ErrCommentTargetNotFound)
	})

	t.Run("hidden lesson is not a valid target", func(t *testing.T) {
		_, svc := newCommentFixture()
		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "lesson",
			ContentID:   7,
			Body:        "great lesson",
		})
		require.ErrorIs(t, err, apperrors.ErrCommentTargetNotFound)
	})

	t.Run("unknown content type is rejected", func(t *testing.T) {
		_, svc := newCommentFixture()
		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "video",
			ContentID:   1,
			Body:        "nice video",
		})
		require.ErrorIs(t, err, apperrors.ErrUnsupportedContentType)
	})

	t.Run("blank body is rejected", func(t *testing.T) {
		_, svc := newCommentFixture()
		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "post",
			ContentID:   1,
			Body:        "   ",
		})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestReplyRules(t *testing.T) {
	ctx := context.Background()

	t.Run("reply to a top-level comment works", func(t *testing.T) {
		_, svc := newCommentFixture()
		parent := addComment(t, svc, studentActor, "parent", nil)
		reply := addComment(t, svc, otherTeacher, "reply", &parent.ID)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, parent.ID, *reply.ParentID)
	})

	t.Run("reply to a reply is rejected", func(t *testing.T) {
		_, svc := newCommentFixture()
		parent := addComment(t, svc, studentActor, "parent", nil)
		reply := addComment(t, svc, studentActor, "reply", &parent.ID)

		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "post",
			ContentID:   1,
			Body:        "reply to reply",
			ParentID:    &reply.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrReplyDepthExceeded)
	})

	t.Run("reply to a soft-deleted parent is rejected", func(t *testing.T) {
		_, svc := newCommentFixture()
		parent := addComment(t, svc, studentActor, "parent", nil)
		require.NoError(t, svc.DeleteComment(ctx, studentActor, parent.ID))

		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "post",
			ContentID:   1,
			Body:        "too late",
			ParentID:    &parent.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrParentCommentNotFound)
	})

	t.Run("parent must live on the same target", func(t *testing.T) {
		_, svc := newCommentFixture()
		parent := addComment(t, svc, studentActor, "on the post", nil)

		_, err := svc.AddComment(ctx, studentActor, &dto.CreateCommentRequest{
			ContentType: "lesson",
			ContentID:   1,
			Body:        "crossing targets",
			ParentID:    &parent.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrParentCommentNotFound)
	})
}

// TestConcurrentAddComment hammers one post from many goroutines; the
// denormalized counter must end up exactly at the number of comments written.
func TestConcurrentAddComment(t *testing.T) {
	store, svc := newCommentFixture()
	ctx := context.Background()

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.AddComment(ctx, Actor{ID: userID, Role: models.RoleStudent}, &dto.CreateCommentRequest{
				ContentType: "post",
				ContentID:   1,
				Body:        "first!",
			})
			errs <- err
		}(int64(100 + i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, writers, store.countFor(models.ContentTypePost, 1))
}

func TestGetThread(t *testing.T) {
	ctx := context.Background()
	_, svc := newCommentFixture()

	parent := addComment(t, svc, studentActor, "top", nil)
	addComment(t, svc, otherTeacher, "reply one", &parent.ID)
	hidden := addComment(t, svc, studentActor, "spam", nil)
	deleted := addComment(t, svc, studentActor, "regret", nil)

	require.NoError(t, svc.SetApproval(ctx, hidden.ID, false))
	require.NoError(t, svc.DeleteComment(ctx, studentActor, deleted.ID))

	t.Run("replies hang under their parent", func(t *testing.T) {
		thread, err := svc.GetThread(ctx, adminActor, models.ContentTypePost, 1)
		require.NoError(t, err)
		require.NotEmpty(t, thread)
		assert.Equal(t, parent.ID, thread[0].ID)
		require.Len(t, thread[0].Replies, 1)
		assert.Equal(t, "reply one", thread[0].Replies[0].Body)
	})

	t.Run("moderated comments are dropped for other users", func(t *testing.T) {
		thread, err := svc.GetThread(ctx, Actor{ID: 777, Role: models.RoleStudent}, models.ContentTypePost, 1)
		require.NoError(t, err)
		for _, c := range thread {
			assert.NotEqual(t, hidden.ID, c.ID)
		}
	})

	t.Run("author still sees their moderated comment", func(t *testing.T) {
		thread, err := svc.GetThread(ctx, studentActor, models.ContentTypePost, 1)
		require.NoError(t, err)
		found := false
		for _, c := range thread {
			if c.ID == hidden.ID {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("deleted comments keep their slot with a blank body", func(t *testing.T) {
		thread, err := svc.GetThread(ctx, adminActor, models.ContentTypePost, 1)
		require.NoError(t, err)
		var got *models.Comment
		for _, c := range thread {
			if c.ID == deleted.ID {
				got = c
			}
		}
		require.NotNil(t, got)
		assert.True(t, got.IsDeleted)
		assert.Empty(t, got.Body)
	})
}

func TestUpdateAndDeleteComment(t *testing.T) {
	ctx := context.Background()

	t.Run("only the author edits", func(t *testing.T) {
		_, svc := newCommentFixture()
		comment := addComment(t, svc, studentActor, "original", nil)

		err := svc.UpdateComment(ctx, adminActor, comment.ID, "rewritten")
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		require.NoError(t, svc.UpdateComment(ctx, studentActor, comment.ID, "fixed typo"))
	})

	t.Run("author or admin deletes", func(t *testing.T) {
		_, svc := newCommentFixture()
		mine := addComment(t, svc, studentActor, "mine", nil)
		other := addComment(t, svc, otherTeacher, "theirs", nil)

		err := svc.DeleteComment(ctx, studentActor, other.ID)
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		require.NoError(t, svc.DeleteComment(ctx, studentActor, mine.ID))
		require.NoError(t, svc.DeleteComment(ctx, adminActor, other.ID))
	})

	t.Run("deleted comment cannot be edited or re-deleted", func(t *testing.T) {
		store, svc := newCommentFixture()
		comment := addComment(t, svc, studentActor, "gone soon", nil)
		require.NoError(t, svc.DeleteComment(ctx, studentActor, comment.ID))

		require.ErrorIs(t, svc.UpdateComment(ctx, studentActor, comment.ID, "resurrect"), apperrors.ErrCommentNotFound)
		require.ErrorIs(t, svc.DeleteComment(ctx, studentActor, comment.ID), apperrors.ErrCommentNotFound)

		// Soft delete leaves the counter untouched
		assert.Equal(t, 1, store.countFor(models.ContentTypePost, 1))
	})
}

func TestToggleReaction(t *testing.T) {
	ctx := context.Background()
	_, svc := newCommentFixture()
	comment := addComment(t, svc, studentActor, "debatable", nil)
	reactor := Actor{ID: 50, Role: models.RoleStudent}

	t.Run("like then dislike replaces the reaction", func(t *testing.T) {
		res, err := svc.ToggleReaction(ctx, reactor, comment.ID, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, "like", res.Kind)
		assert.Equal(t, 1, res.Likes)
		assert.Equal(t, 0, res.Dislikes)

		res, err = svc.ToggleReaction(ctx, reactor, comment.ID, models.ReactionDislike)
		require.NoError(t, err)
		assert.Equal(t, "dislike", res.Kind)
		assert.Equal(t, 0, res.Likes)
		assert.Equal(t, 1, res.Dislikes)
	})

	t.Run("same reaction again removes it", func(t *testing.T) {
		res, err := svc.ToggleReaction(ctx, reactor, comment.ID, models.ReactionDislike)
		require.NoError(t, err)
		assert.Empty(t, res.Kind)
		assert.Equal(t, 0, res.Likes)
		assert.Equal(t, 0, res.Dislikes)
	})

	t.Run("reactions from different users accumulate", func(t *testing.T) {
		_, err := svc.ToggleReaction(ctx, Actor{ID: 51, Role: models.RoleStudent}, comment.ID, models.ReactionLike)
		require.NoError(t, err)
		res, err := svc.ToggleReaction(ctx, Actor{ID: 52, Role: models.RoleStudent}, comment.ID, models.ReactionLike)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Likes)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := svc.ToggleReaction(ctx, reactor, comment.ID, "love")
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("deleted comment takes no reactions", func(t *testing.T) {
		gone := addComment(t, svc, studentActor, "bye", nil)
		require.NoError(t, svc.DeleteComment(ctx, studentActor, gone.ID))
		_, err := svc.ToggleReaction(ctx, reactor, gone.ID, models.ReactionLike)
		require.ErrorIs(t, err, apperrors.ErrCommentNotFound)
	})
}

func TestReportComment(t *testing.T) {
	ctx := context.Background()
	store, svc := newCommentFixture()
	comment := addComment(t, svc, studentActor, "borderline", nil)

	require.ErrorIs(t, svc.Report(ctx, otherTeacher, comment.ID, " "), apperrors.ErrValidationFailed)

	require.NoError(t, svc.Report(ctx, otherTeacher, comment.ID, "offensive wording"))
	stored := store.comments[comment.ID]
	assert.True(t, stored.IsReported)
	require.NotNil(t, stored.ReportReason)
	assert.Equal(t, "offensive wording", *stored.ReportReason)
}
