package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/learning-portal/internal/application/guard"
	"github.com/alem-hub/learning-portal/internal/application/portal"
	"github.com/alem-hub/learning-portal/internal/application/session"
	"github.com/alem-hub/learning-portal/internal/domain/course"
	"github.com/alem-hub/learning-portal/internal/domain/feedback"
	"github.com/alem-hub/learning-portal/internal/domain/quiz"
	"github.com/alem-hub/learning-portal/internal/domain/user"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/fixture"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/learning-portal/internal/interface/http/handlers"
	"github.com/alem-hub/learning-portal/pkg/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *ResponseMeta   `json:"meta"`
	ReqID   string          `json:"request_id"`
}

func newTestServer(t *testing.T) (http.Handler, *handlers.CompositeHealthChecker) {
	t.Helper()
	log := logger.Discard()
	store := session.NewStore(memory.NewStorage(), "", log)
	facade := portal.NewFacade(store, fixture.NewRepository(), log, portal.WithDelays(portal.NoDelays()))
	health := handlers.NewCompositeHealthChecker("test")

	cfg := DefaultConfig()
	srv := NewServer(cfg, Dependencies{
		Facade:        facade,
		Guard:         guard.New(store, nil, log),
		HealthChecker: health,
		Logger:        log,
	})
	return srv.Handler(), health
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestSessionLifecycle(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/session", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var u user.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "alice", u.Username)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	rec, env = do(t, h, http.MethodGet, "/api/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice"}`, string(env.Data))

	rec, _ = do(t, h, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/session", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec, env = do(t, h, http.MethodGet, "/api/v1/session", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_session", env.Error.Code)

	rec, env = do(t, h, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Code)
}

func TestLogin_ValidationAndBadJSON(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/session", `{"username":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Equal(t, "username", env.Error.Field)
	assert.Equal(t, "username is required", env.Error.Message)

	rec, env = do(t, h, http.MethodPost, "/api/v1/session", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", env.Error.Code)
}

func TestCourses(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/api/v1/courses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, env.Meta.TotalCount)
	assert.NotContains(t, string(env.Data), `"quiz"`)

	var summaries []course.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summaries))
	assert.Equal(t, "c1", summaries[0].ID)

	rec, env = do(t, h, http.MethodGet, "/api/v1/courses/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var c1 course.Course
	require.NoError(t, json.Unmarshal(env.Data, &c1))
	assert.Len(t, c1.Lessons, 5)
	assert.Len(t, c1.Quiz.Questions, 2)

	rec, env = do(t, h, http.MethodGet, "/api/v1/courses/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "course_not_found", env.Error.Code)
	assert.Equal(t, "Course not found", env.Error.Message)
}

func TestRoot_ReportsUptime(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info struct {
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, DefaultConfig().Version, info.Version)
	// the handler is served without Start, so the server reports zero uptime
	assert.Equal(t, "0s", info.Uptime)
}

func TestSubmitQuiz_RequiresSession(t *testing.T) {
	h, _ := newTestServer(t)
	body := `{"answers":{"q1":"x","q2":"y"}}`

	rec, _ := do(t, h, http.MethodPost, "/api/v1/courses/c1/submissions", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, _ = do(t, h, http.MethodPost, "/api/v1/session", `{"username":"alice"}`)

	rec, env := do(t, h, http.MethodPost, "/api/v1/courses/c1/submissions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sub quiz.Submission
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "c1", sub.CourseID)
	assert.Equal(t, "alice", sub.User)
	assert.Equal(t, 2, sub.Score)
	assert.False(t, sub.SubmittedAt.IsZero())
	_, err := uuid.Parse(sub.ID)
	assert.NoError(t, err)
}

func TestSubmitFeedback(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodPost, "/api/v1/feedback", `{"rating":4,"category":"platform","message":"nice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(env.Data), `"timestamp"`)

	rec, env = do(t, h, http.MethodPost, "/api/v1/feedback", `{"rating":9,"category":"platform"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "rating", env.Error.Field)

	rec, env = do(t, h, http.MethodPost, "/api/v1/feedback", `{"rating":3,"category":"rant"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "category", env.Error.Field)

	long := strings.Repeat("é", feedback.MaxMessageLength+1)
	rec, env = do(t, h, http.MethodPost, "/api/v1/feedback", `{"rating":3,"category":"platform","message":"`+long+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "message", env.Error.Field)
}

func TestDashboard_BrowserRedirect(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, guard.LoginPath, rec.Header().Get("Location"))

	rec, _ = do(t, h, http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	h, health := newTestServer(t)

	rec, _ := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	health.AddCheck("storage", func(context.Context) error { return errors.New("down") })

	rec, _ = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec, env := do(t, h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, string(env.Data), "not_ready")
	rec, _ = do(t, h, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID(t *testing.T) {
	h, _ := newTestServer(t)

	rec, env := do(t, h, http.MethodGet, "/live", "")
	generated := rec.Header().Get("X-Request-ID")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, env.ReqID)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("X-Request-ID", "client-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-123", rec.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}
