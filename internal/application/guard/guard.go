// Package guard decides whether a view may be entered given the current
// session. It is re-evaluated on every navigation; nothing is cached.
package guard

import (
	"context"

	"github.com/alem-hub/learning-portal/internal/domain/user"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Views known to the portal.
const (
	ViewHome       = "home"
	ViewLogin      = "login"
	ViewCourses    = "courses"
	ViewCourse     = "course"
	ViewFeedback   = "feedback"
	ViewDashboard  = "dashboard"
	ViewQuizSubmit = "quiz_submit"
)

// SessionReader is the part of the session store the guard needs.
type SessionReader interface {
	Current(ctx context.Context) *user.User
}

// Decision is the outcome of a guard check. Redirect is empty when Allow is set.
type Decision struct {
	Allow    bool
	Redirect string
	User     *user.User
}

// Guard gates protected views on session presence.
type Guard struct {
	sessions    SessionReader
	publicViews map[string]bool
	log         *logger.Logger
}

// DefaultPublicViews returns the views reachable without a session.
func DefaultPublicViews() []string {
	return []string{ViewHome, ViewLogin, ViewCourses, ViewCourse, ViewFeedback}
}

// New creates a Guard. A nil publicViews uses DefaultPublicViews.
func New(sessions SessionReader, publicViews []string, log *logger.Logger) *Guard {
	if publicViews == nil {
		publicViews = DefaultPublicViews()
	}
	if log == nil {
		log = logger.Discard()
	}

	public := make(map[string]bool, len(publicViews))
	for _, v := range publicViews {
		public[v] = true
	}

	return &Guard{
		sessions:    sessions,
		publicViews: public,
		log:         log.With(logger.Component("guard")),
	}
}

// IsPublic reports whether view needs no session.
func (g *Guard) IsPublic(view string) bool {
	return g.publicViews[view]
}

// Check allows public views unconditionally and protected views only while a
// session exists. Otherwise it redirects to LoginPath.
func (g *Guard) Check(ctx context.Context, view string) Decision {
	current := g.sessions.Current(ctx)

	if g.IsPublic(view) {
		return Decision{Allow: true, User: current}
	}
	if current != nil {
		return Decision{Allow: true, User: current}
	}

	g.log.Info("access denied", logger.ViewName(view), logger.RedirectTarget(LoginPath))
	return Decision{Redirect: LoginPath}
}

// CanEnter is Check reduced to a boolean.
func (g *Guard) CanEnter(ctx context.Context, view string) bool {
	return g.Check(ctx, view).Allow
}
