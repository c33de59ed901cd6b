package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() *Course {
	return &Course{
		ID:          "c1",
		Title:       "Intro",
		Description: "desc",
		Lessons:     []string{"a", "b"},
		Quiz: Quiz{Questions: []Question{
			{ID: "q1", Text: "?", Choices: []string{"x", "y"}},
		}},
	}
}

func TestCourse_SummaryOmitsQuiz(t *testing.T) {
	data, err := json.Marshal(sampleCourse().Summary())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "quiz")
	assert.Equal(t, "c1", fields["id"])
}

func TestCourse_CloneIsDeep(t *testing.T) {
	orig := sampleCourse()
	clone := orig.Clone()

	clone.Lessons[0] = "changed"
	clone.Quiz.Questions[0].Choices[0] = "changed"

	assert.Equal(t, "a", orig.Lessons[0])
	assert.Equal(t, "x", orig.Quiz.Questions[0].Choices[0])
}
