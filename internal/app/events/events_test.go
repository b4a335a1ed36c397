package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linguahub/linguahub-backend/internal/app/models"
)

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event delivery")
		panic("unreachable")
	}
}

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan CourseEvent, 1)
	bus.Subscribe(CourseApproved, func(ctx context.Context, event CourseEvent) {
		received <- event
	})

	bus.Publish(CourseEvent{Type: CourseApproved, CourseID: 7, CourseTitle: "Grammar Basics"})

	event := waitFor(t, received)
	assert.Equal(t, int64(7), event.CourseID)
	assert.Equal(t, "Grammar Basics", event.CourseTitle)
}

func TestBusIgnoresUnrelatedEvents(t *testing.T) {
	bus := NewBus()
	received := make(chan CourseEvent, 1)
	bus.Subscribe(CourseApproved, func(ctx context.Context, event CourseEvent) {
		received <- event
	})

	bus.Publish(CourseEvent{Type: CourseRejected, CourseID: 7})

	select {
	case <-received:
		t.Fatal("handler received an event it never subscribed to")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusFansOut(t *testing.T) {
	bus := NewBus()
	first := make(chan CourseEvent, 1)
	second := make(chan CourseEvent, 1)
	bus.Subscribe(CourseSubmitted, func(ctx context.Context, event CourseEvent) { first <- event })
	bus.Subscribe(CourseSubmitted, func(ctx context.Context, event CourseEvent) { second <- event })

	bus.Publish(CourseEvent{Type: CourseSubmitted, CourseID: 3})

	assert.Equal(t, int64(3), waitFor(t, first).CourseID)
	assert.Equal(t, int64(3), waitFor(t, second).CourseID)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus()
	received := make(chan CourseEvent, 1)
	bus.Subscribe(CourseApproved, func(ctx context.Context, event CourseEvent) {
		panic("handler bug")
	})
	bus.Subscribe(CourseApproved, func(ctx context.Context, event CourseEvent) {
		received <- event
	})

	bus.Publish(CourseEvent{Type: CourseApproved, CourseID: 1})

	waitFor(t, received)
}

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type sentEmail struct {
	to      string
	subject string
	reason  string
}

type fakeEmails struct {
	sent chan sentEmail
}

func (f *fakeEmails) SendVerificationEmail(toEmail, toName, token string) error {
	f.sent <- sentEmail{to: toEmail, subject: "verify"}
	return nil
}

func (f *fakeEmails) SendCourseApprovedEmail(toEmail, toName, courseTitle string) error {
	f.sent <- sentEmail{to: toEmail, subject: "approved"}
	return nil
}

func (f *fakeEmails) SendCourseRejectedEmail(toEmail, toName, courseTitle, reason string) error {
	f.sent <- sentEmail{to: toEmail, subject: "rejected", reason: reason}
	return nil
}

func TestEmailNotifier(t *testing.T) {
	teacher := &models.User{ID: 4, Email: "teacher@example.com", FirstName: "Ada", LastName: "Jones"}

	t.Run("approval emails the course owner", func(t *testing.T) {
		bus := NewBus()
		emails := &fakeEmails{sent: make(chan sentEmail, 1)}
		NewEmailNotifier(bus, &fakeUsers{user: teacher}, emails)

		bus.Publish(CourseEvent{Type: CourseApproved, CourseID: 11, TeacherID: 4, CourseTitle: "Phrasal Verbs"})

		mail := waitFor(t, emails.sent)
		assert.Equal(t, "teacher@example.com", mail.to)
		assert.Equal(t, "approved", mail.subject)
	})

	t.Run("rejection carries the reason", func(t *testing.T) {
		bus := NewBus()
		emails := &fakeEmails{sent: make(chan sentEmail, 1)}
		NewEmailNotifier(bus, &fakeUsers{user: teacher}, emails)

		bus.Publish(CourseEvent{Type: CourseRejected, CourseID: 11, TeacherID: 4, Reason: "missing audio"})

		mail := waitFor(t, emails.sent)
		assert.Equal(t, "rejected", mail.subject)
		assert.Equal(t, "missing audio", mail.reason)
	})

	t.Run("unknown teacher sends nothing", func(t *testing.T) {
		bus := NewBus()
		emails := &fakeEmails{sent: make(chan sentEmail, 1)}
		NewEmailNotifier(bus, &fakeUsers{err: errors.New("user not found")}, emails)

		bus.Publish(CourseEvent{Type: CourseApproved, CourseID: 11, TeacherID: 99})

		select {
		case <-emails.sent:
			t.Fatal("email sent for an unresolvable teacher")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
