package portal

import (
	"context"
	"time"
)

// Delays holds the artificial latency applied to each façade operation.
type Delays struct {
	Login          time.Duration
	ListCourses    time.Duration
	GetCourse      time.Duration
	SubmitQuiz     time.Duration
	SubmitFeedback time.Duration
}

// DefaultDelays returns the interactive latency profile.
func DefaultDelays() Delays {
	return Delays{
		Login:          300 * time.Millisecond,
		ListCourses:    150 * time.Millisecond,
		GetCourse:      150 * time.Millisecond,
		SubmitQuiz:     200 * time.Millisecond,
		SubmitFeedback: 1500 * time.Millisecond,
	}
}

// NoDelays returns a profile where every operation completes immediately.
func NoDelays() Delays {
	return Delays{}
}

// wait blocks for d or until ctx is done. A non-positive d returns at once
// unless ctx is already cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
