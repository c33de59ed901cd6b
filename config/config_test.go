package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, "lms_user", cfg.Session.Key)
	assert.Equal(t, SourceFixture, cfg.Courses.Source)
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.NeedsRedis())
	assert.Equal(t, 8080, cfg.HTTP.Port)

	assert.True(t, cfg.Latency.Enabled)
	assert.Equal(t, 300*time.Millisecond, cfg.Latency.Login)
	assert.Equal(t, 150*time.Millisecond, cfg.Latency.ListCourses)
	assert.Equal(t, 150*time.Millisecond, cfg.Latency.GetCourse)
	assert.Equal(t, 200*time.Millisecond, cfg.Latency.SubmitQuiz)
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.SubmitFeedback)
}

func TestLoad_TestEnvironmentDisablesLatency(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("LATENCY_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Latency.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_KEY", "portal_user")
	t.Setenv("COURSE_CACHE_ENABLED", "true")
	t.Setenv("COURSE_CACHE_TTL", "30s")
	t.Setenv("LATENCY_LOGIN", "1s")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("HTTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "portal_user", cfg.Session.Key)
	assert.True(t, cfg.NeedsRedis())
	assert.Equal(t, 30*time.Second, cfg.Courses.CacheTTL)
	assert.Equal(t, time.Second, cfg.Latency.Login)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("COURSE_SOURCE", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "portal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.NeedsPostgres())
	assert.Equal(t, "postgres://portal:secret@db:5432/lms?sslmode=disable", cfg.Database.URL)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "etcd")
	t.Setenv("COURSE_SOURCE", "postgres")
	t.Setenv("LATENCY_SUBMIT_QUIZ", "-1s")

	_, err := Load()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "configuration errors:")
	assert.Contains(t, msg, `SESSION_BACKEND must be one of memory, redis, postgres (got "etcd")`)
	assert.Contains(t, msg, "DATABASE_URL is required")
	assert.Contains(t, msg, "LATENCY_SUBMIT_QUIZ must not be negative")
}

func TestValidate_EmptySessionKey(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Session.Key = "  "
	assert.ErrorContains(t, cfg.Validate(), "SESSION_KEY must not be empty")
}

func TestValidate_Environment(t *testing.T) {
	t.Setenv("APP_ENV", "qa")

	_, err := Load()
	assert.ErrorContains(t, err, `APP_ENV must be one of development, test, staging, production (got "qa")`)
}

func TestValidate_ProductionRequiresExplicitOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "HTTP_ALLOWED_ORIGINS must list explicit origins in production")

	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://portal.example")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_StagingAllowsWildcardOrigin(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvStaging, cfg.App.Environment)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
}

func TestLoad_HealthTimeout(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.HTTP.HealthTimeout)

	cfg.HTTP.HealthTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "HTTP_HEALTH_TIMEOUT must be positive")
}
