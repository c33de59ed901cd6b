// Package portal is the single API surface through which views and the HTTP
// layer reach identity and course data.
//
// Every operation logs "<op>_attempt" on entry, waits for its configured
// delay, does its work and logs "<op>_success". Log metadata never carries
// emails or passwords.
package portal

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alem-hub/learning-portal/internal/application/session"
	"github.com/alem-hub/learning-portal/internal/domain/course"
	"github.com/alem-hub/learning-portal/internal/domain/feedback"
	"github.com/alem-hub/learning-portal/internal/domain/quiz"
	"github.com/alem-hub/learning-portal/internal/domain/user"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// Facade composes the session store, the course repository, the event log
// and simulated latency.
type Facade struct {
	sessions *session.Store
	courses  course.Repository
	delays   Delays
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Facade.
type Option func(*Facade)

// WithDelays sets the per-operation latency profile.
func WithDelays(d Delays) Option {
	return func(f *Facade) {
		f.delays = d
	}
}

// WithClock replaces time.Now for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

// WithIDGenerator replaces the submission id generator.
func WithIDGenerator(gen func() string) Option {
	return func(f *Facade) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// NewFacade creates a Facade with the interactive latency profile unless
// overridden.
func NewFacade(sessions *session.Store, courses course.Repository, log *logger.Logger, opts ...Option) *Facade {
	if log == nil {
		log = logger.Discard()
	}
	f := &Facade{
		sessions: sessions,
		courses:  courses,
		delays:   DefaultDelays(),
		log:      log.With(logger.Component("api")),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Authenticate starts a session for creds.Username. Any non-blank username
// succeeds; email and password are ignored.
func (f *Facade) Authenticate(ctx context.Context, creds user.Credentials) (user.User, error) {
	f.log.Info("login_attempt", logger.Username(creds.Username))

	if err := wait(ctx, f.delays.Login); err != nil {
		f.cancelled("login", err)
		return user.User{}, err
	}

	u, err := f.sessions.Create(ctx, user.User{Username: creds.Username})
	if err != nil {
		f.log.Error("login_failure", logger.Username(creds.Username), logger.Err(err))
		return user.User{}, err
	}

	f.log.Info("login_success", logger.Username(u.Username))
	return u, nil
}

// EndSession clears the session. It succeeds whether or not one exists.
func (f *Facade) EndSession(ctx context.Context) error {
	var name string
	if current := f.sessions.Current(ctx); current != nil {
		name = current.Username
	}
	f.log.Info("logout_attempt", logger.Username(name))

	if err := wait(ctx, 0); err != nil {
		f.cancelled("logout", err)
		return err
	}

	f.sessions.Clear(ctx)

	f.log.Info("logout_success", logger.Username(name))
	return nil
}

// CurrentUser returns the logged-in user or nil.
func (f *Facade) CurrentUser(ctx context.Context) *user.User {
	return f.sessions.Current(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSES
// ══════════════════════════════════════════════════════════════════════════════

// ListCourses returns the catalog in order, without quiz payloads.
func (f *Facade) ListCourses(ctx context.Context) ([]course.Summary, error) {
	f.log.Info("list_courses_attempt")

	if err := wait(ctx, f.delays.ListCourses); err != nil {
		f.cancelled("list_courses", err)
		return nil, err
	}

	summaries, err := f.courses.ListSummaries(ctx)
	if err != nil {
		f.log.Error("list_courses_failure", logger.Err(err))
		return nil, err
	}

	f.log.Info("list_courses_success", logger.Int("count", len(summaries)))
	return summaries, nil
}

// FetchCourse returns the course with id, or nil when there is none.
func (f *Facade) FetchCourse(ctx context.Context, id string) (*course.Course, error) {
	f.log.Info("get_course_attempt", logger.CourseID(id))

	if err := wait(ctx, f.delays.GetCourse); err != nil {
		f.cancelled("get_course", err)
		return nil, err
	}

	c, err := f.courses.GetByID(ctx, id)
	if err != nil {
		f.log.Error("get_course_failure", logger.CourseID(id), logger.Err(err))
		return nil, err
	}
	if c == nil {
		f.log.Info("get_course_not_found", logger.CourseID(id))
	}

	f.log.Info("get_course_success", logger.CourseID(id), logger.Bool("found", c != nil))
	return c, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ & FEEDBACK
// ══════════════════════════════════════════════════════════════════════════════

// SubmitQuizCommand is one quiz attempt by User on CourseID.
type SubmitQuizCommand struct {
	CourseID string
	User     user.User
	Answers  quiz.Answers
}

// SubmitQuizAttempt records an attempt. The score is the number of answered
// questions; choices are not checked.
func (f *Facade) SubmitQuizAttempt(ctx context.Context, cmd SubmitQuizCommand) (quiz.Submission, error) {
	f.log.Info("submit_quiz_attempt",
		logger.CourseID(cmd.CourseID),
		logger.Username(cmd.User.Username),
		logger.Int("answered", len(cmd.Answers)),
	)

	if err := wait(ctx, f.delays.SubmitQuiz); err != nil {
		f.cancelled("submit_quiz", err)
		return quiz.Submission{}, err
	}

	sub := quiz.NewSubmission(f.newID(), cmd.CourseID, cmd.User.Username, cmd.Answers, f.now())

	f.log.Info("submit_quiz_success",
		logger.SubmissionID(sub.ID),
		logger.CourseID(sub.CourseID),
		logger.Username(sub.User),
		logger.Score(sub.Score),
	)
	return sub, nil
}

// SubmitFeedback validates and stamps a feedback form submission. Feedback is
// only logged, never stored.
func (f *Facade) SubmitFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	f.log.Info("submit_feedback_attempt",
		logger.FeedbackCategory(string(fb.Category)),
		logger.Int("rating", fb.Rating),
	)

	if err := wait(ctx, f.delays.SubmitFeedback); err != nil {
		f.cancelled("submit_feedback", err)
		return feedback.Feedback{}, err
	}

	if err := fb.Validate(); err != nil {
		f.log.Error("submit_feedback_failure", logger.Err(err))
		return feedback.Feedback{}, err
	}
	fb.SubmittedAt = f.now().UTC()

	f.log.Info("submit_feedback_success",
		logger.FeedbackCategory(string(fb.Category)),
		logger.Int("rating", fb.Rating),
		logger.Int("messageLength", utf8.RuneCountInString(fb.Message)),
	)
	return fb, nil
}

// cancelled records an operation abandoned during its delay.
func (f *Facade) cancelled(op string, err error) {
	f.log.Error(op+"_failure", logger.Err(err), logger.Bool("cancelled", true))
}
