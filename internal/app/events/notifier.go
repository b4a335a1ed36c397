package events

import (
	"context"

	"github.com/linguahub/linguahub-backend/internal/app/models"
	"github.com/linguahub/linguahub-backend/internal/pkg/email"
	"github.com/linguahub/linguahub-backend/internal/pkg/logger"
)

// userGetter resolves the teacher to notify
type userGetter interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// EmailNotifier turns course approval events into emails to the course owner
type EmailNotifier struct {
	users  userGetter
	emails email.EmailService
}

// NewEmailNotifier creates the notifier and registers it on the bus
func NewEmailNotifier(bus *Bus, users userGetter, emails email.EmailService) *EmailNotifier {
	n := &EmailNotifier{users: users, emails: emails}
	bus.Subscribe(CourseApproved, n.handle)
	bus.Subscribe(CourseRejected, n.handle)
	return n
}

func (n *EmailNotifier) handle(ctx context.Context, event CourseEvent) {
	user, err := n.users.GetUserByID(ctx, event.TeacherID)
	if err != nil {
		logger.Error().Err(err).Int64("teacherID", event.TeacherID).Int64("courseID", event.CourseID).
			Msg("Failed to resolve teacher for course notification")
		return
	}

	name := user.FirstName + " " + user.LastName
	switch event.Type {
	case CourseApproved:
		err = n.emails.SendCourseApprovedEmail(user.Email, name, event.CourseTitle)
	case CourseRejected:
		err = n.emails.SendCourseRejectedEmail(user.Email, name, event.CourseTitle, event.Reason)
	default:
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("courseID", event.CourseID).Str("event", string(event.Type)).
			Msg("Failed to send course notification email")
	}
}
