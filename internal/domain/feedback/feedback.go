// Package feedback models the free-form platform feedback form.
package feedback

import (
	"time"
	"unicode/utf8"

	"github.com/alem-hub/learning-portal/internal/domain/shared"
)

// Category groups feedback for triage.
type Category string

const (
	CategoryCourse   Category = "course"
	CategoryPlatform Category = "platform"
	CategorySupport  Category = "support"
	CategoryFeature  Category = "feature"
	CategoryBug      Category = "bug"
	CategoryOther    Category = "other"
)

// Categories lists the accepted categories in form order.
func Categories() []Category {
	return []Category{
		CategoryCourse,
		CategoryPlatform,
		CategorySupport,
		CategoryFeature,
		CategoryBug,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MaxMessageLength caps the free-text message, counted in characters.
const MaxMessageLength = 500

// Feedback is a single submission of the feedback form.
type Feedback struct {
	Rating      int       `json:"rating"`
	Category    Category  `json:"category"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"timestamp"`
}

// Validate checks rating range, category and message length.
func (f Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return shared.ErrInvalidRating
	}
	if !f.Category.IsValid() {
		return shared.ErrInvalidCategory
	}
	if utf8.RuneCountInString(f.Message) > MaxMessageLength {
		return shared.ErrMessageTooLong
	}
	return nil
}
