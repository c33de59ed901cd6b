// Package quiz models quiz attempts.
//
// Scoring counts answered questions. The catalog carries no correct choice,
// so a submission records completion, not correctness.
package quiz

import "time"

// Answers maps question id to the chosen choice text.
type Answers map[string]string

// Score returns the number of distinct answered question ids. Choice values
// are not inspected.
func (a Answers) Score() int {
	return len(a)
}

// Submission is the transient record of one quiz attempt.
type Submission struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	User        string    `json:"user"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmission builds a submission for the given attempt.
func NewSubmission(id, courseID, username string, answers Answers, at time.Time) Submission {
	return Submission{
		ID:          id,
		CourseID:    courseID,
		User:        username,
		Score:       answers.Score(),
		SubmittedAt: at.UTC(),
	}
}
