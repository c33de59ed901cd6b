package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alem-hub/learning-portal/internal/domain/course"
)

type fileCatalog struct {
	Courses []fileCourse `yaml:"courses"`
}

type fileCourse struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Lessons     []string       `yaml:"lessons"`
	Quiz        []fileQuestion `yaml:"quiz"`
}

type fileQuestion struct {
	ID      string   `yaml:"id"`
	Text    string   `yaml:"text"`
	Choices []string `yaml:"choices"`
}

// LoadFile reads a YAML course catalog.
//
//	courses:
//	  - id: c1
//	    title: Introduction to DevOps
//	    lessons: [CI/CD Pipelines]
//	    quiz:
//	      - {id: q1, text: What does CI stand for?, choices: [Continuous Integration]}
func LoadFile(path string) ([]*course.Course, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML course catalog. Every course needs a unique id and
// every question an id unique within its course.
func Parse(data []byte) ([]*course.Course, error) {
	var catalog fileCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(catalog.Courses) == 0 {
		return nil, fmt.Errorf("catalog has no courses")
	}

	seen := make(map[string]struct{}, len(catalog.Courses))
	out := make([]*course.Course, 0, len(catalog.Courses))

	for i, fc := range catalog.Courses {
		id := strings.TrimSpace(fc.ID)
		if id == "" {
			return nil, fmt.Errorf("course #%d: id is required", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("course %q: duplicate id", id)
		}
		seen[id] = struct{}{}

		c := &course.Course{
			ID:          id,
			Title:       fc.Title,
			Description: fc.Description,
			Lessons:     append([]string{}, fc.Lessons...),
			Quiz:        course.Quiz{Questions: make([]course.Question, 0, len(fc.Quiz))},
		}

		questions := make(map[string]struct{}, len(fc.Quiz))
		for _, q := range fc.Quiz {
			if q.ID == "" {
				return nil, fmt.Errorf("course %q: question id is required", id)
			}
			if _, dup := questions[q.ID]; dup {
				return nil, fmt.Errorf("course %q: duplicate question %q", id, q.ID)
			}
			questions[q.ID] = struct{}{}
			c.Quiz.Questions = append(c.Quiz.Questions, course.Question{
				ID:      q.ID,
				Text:    q.Text,
				Choices: append([]string{}, q.Choices...),
			})
		}

		out = append(out, c)
	}

	return out, nil
}
