// Package course contains the course catalog model and the read-only
// repository contract every catalog source implements.
package course

import "context"

// Question is a single quiz prompt. No choice is marked correct.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// Quiz is the ordered set of questions attached to a course.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Course is a catalog entry. Courses are loaded once and never mutated.
type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []string `json:"lessons"`
	Quiz        Quiz     `json:"quiz"`
}

// Summary is the catalog listing view of a course. It has no quiz field at
// all, so the quiz payload cannot leak through a listing.
type Summary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []string `json:"lessons"`
}

// Summary projects the course onto its listing view.
func (c *Course) Summary() Summary {
	return Summary{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Lessons:     append([]string(nil), c.Lessons...),
	}
}

// Clone returns a deep copy so callers cannot mutate repository data.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := &Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Lessons:     append([]string(nil), c.Lessons...),
		Quiz:        Quiz{Questions: make([]Question, len(c.Quiz.Questions))},
	}
	for i, q := range c.Quiz.Questions {
		out.Quiz.Questions[i] = Question{
			ID:      q.ID,
			Text:    q.Text,
			Choices: append([]string(nil), q.Choices...),
		}
	}
	return out
}

// Repository is the read-only catalog capability.
type Repository interface {
	// ListSummaries returns every course in catalog order, without quizzes.
	ListSummaries(ctx context.Context) ([]Summary, error)

	// GetByID returns the course with exactly this id, or nil when there is
	// none. A miss is not an error.
	GetByID(ctx context.Context, id string) (*Course, error)
}
