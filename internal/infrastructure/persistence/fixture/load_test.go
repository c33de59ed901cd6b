package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
courses:
  - id: k8s
    title: Kubernetes Basics
    description: Pods and services.
    lessons: [Pods, Services]
    quiz:
      - id: q1
        text: What runs containers?
        choices: [Pod, Service]
  - id: go
    title: Go in Practice
    lessons: []
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	courses, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "k8s", courses[0].ID)
	assert.Equal(t, []string{"Pods", "Services"}, courses[0].Lessons)
	require.Len(t, courses[0].Quiz.Questions, 1)
	assert.Equal(t, []string{"Pod", "Service"}, courses[0].Quiz.Questions[0].Choices)

	assert.Empty(t, courses[1].Quiz.Questions)
	assert.NotNil(t, courses[1].Lessons)

	repo := NewRepositoryWith(courses)
	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "go", summaries[1].ID)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog file")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not yaml", "courses: [", "failed to parse catalog file"},
		{"empty", "courses: []", "catalog has no courses"},
		{"missing id", "courses:\n  - title: x", "course #1: id is required"},
		{"duplicate course", "courses:\n  - id: a\n  - id: a", `course "a": duplicate id`},
		{"duplicate question", "courses:\n  - id: a\n    quiz:\n      - id: q1\n      - id: q1", `duplicate question "q1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
