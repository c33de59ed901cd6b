package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/alem-hub/learning-portal/internal/application/portal"
	"github.com/alem-hub/learning-portal/internal/domain/course"
	"github.com/alem-hub/learning-portal/internal/domain/feedback"
	"github.com/alem-hub/learning-portal/internal/domain/quiz"
	"github.com/alem-hub/learning-portal/internal/domain/shared"
	"github.com/alem-hub/learning-portal/internal/domain/user"
	"github.com/alem-hub/learning-portal/internal/interface/http/handlers"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "Learning Portal API",
		"version": s.config.Version,
		"uptime":  s.Uptime().Round(time.Second).String(),
		"endpoints": map[string]string{
			"health":   "/health",
			"session":  "/api/v1/session",
			"courses":  "/api/v1/courses",
			"feedback": "/api/v1/feedback",
		},
	})
}

// handleHealth reports every registered check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": status.Message,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleLogin handles POST /api/v1/session
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds user.Credentials
	if !s.decodeBody(w, r, &creds) {
		return
	}

	u, err := s.deps.Facade.Authenticate(r.Context(), creds)
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, u)
}

// handleLogout handles DELETE /api/v1/session
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Facade.EndSession(r.Context()); err != nil {
		s.writeFacadeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCurrentSession handles GET /api/v1/session
func (s *Server) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	u := s.deps.Facade.CurrentUser(r.Context())
	if u == nil {
		writeJSONError(w, r, http.StatusNotFound, "no_session", "No active session")
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

// handleLoginView is the redirect target for guarded views.
func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"view":   "login",
		"action": "POST /api/v1/session",
		"fields": []string{"username", "email", "password"},
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses handles GET /api/v1/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.deps.Facade.ListCourses(r.Context())
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, summaries, &ResponseMeta{TotalCount: len(summaries)})
}

// handleGetCourse handles GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := s.deps.Facade.FetchCourse(r.Context(), id)
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}
	if c == nil {
		s.writeFacadeError(w, r, shared.NewDomainError("course", "FetchCourse", shared.ErrNotFound, "Course not found"))
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

type submitQuizRequest struct {
	Answers quiz.Answers `json:"answers"`
}

// handleSubmitQuiz handles POST /api/v1/courses/{id}/submissions
func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	var current user.User
	if u := handlers.UserFromContext(r.Context()); u != nil {
		current = *u
	} else if u := s.deps.Facade.CurrentUser(r.Context()); u != nil {
		current = *u
	}

	sub, err := s.deps.Facade.SubmitQuizAttempt(r.Context(), portal.SubmitQuizCommand{
		CourseID: r.PathValue("id"),
		User:     current,
		Answers:  req.Answers,
	})
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, sub)
}

type feedbackRequest struct {
	Rating   int    `json:"rating"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// handleSubmitFeedback handles POST /api/v1/feedback
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	fb, err := s.deps.Facade.SubmitFeedback(r.Context(), feedback.Feedback{
		Rating:   req.Rating,
		Category: feedback.Category(req.Category),
		Message:  req.Message,
	})
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, fb)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROTECTED VIEWS
// ══════════════════════════════════════════════════════════════════════════════

type dashboardResponse struct {
	User    *user.User       `json:"user"`
	Courses []course.Summary `json:"courses"`
}

// handleDashboard handles GET /dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := handlers.UserFromContext(r.Context())
	if u == nil {
		u = s.deps.Facade.CurrentUser(r.Context())
	}

	summaries, err := s.deps.Facade.ListCourses(r.Context())
	if err != nil {
		s.writeFacadeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dashboardResponse{User: u, Courses: summaries})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON body into dst. An empty body leaves dst zero.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSONError(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
		return false
	}

	writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
	return false
}

// writeFacadeError maps façade errors to HTTP statuses.
func (s *Server) writeFacadeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		apiErr := &APIError{Code: "validation_error", Message: err.Error(), Field: shared.ValidationField(err)}
		var de *shared.DomainError
		if errors.As(err, &de) {
			apiErr.Message = de.Message
		}
		writeAPIError(w, r, http.StatusUnprocessableEntity, apiErr)

	case shared.IsNotFound(err):
		code, message := "not_found", "Resource not found"
		var de *shared.DomainError
		if errors.As(err, &de) {
			code, message = de.Domain+"_not_found", de.Message
		}
		writeJSONError(w, r, http.StatusNotFound, code, message)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSONError(w, r, http.StatusServiceUnavailable, "request_cancelled", "Request was cancelled")

	case shared.IsStorageUnavailable(err):
		logger.FromContext(r.Context()).Error("storage unavailable", logger.Err(err))
		writeJSONError(w, r, http.StatusServiceUnavailable, "storage_unavailable", "Session storage is unavailable")

	default:
		logger.FromContext(r.Context()).Error("request failed", logger.Err(err))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
