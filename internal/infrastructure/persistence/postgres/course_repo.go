package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alem-hub/learning-portal/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// ListSummaries returns every course ordered by catalog position.
func (r *CourseRepository) ListSummaries(ctx context.Context) ([]course.Summary, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, title, description, lessons
		FROM courses
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	summaries := make([]course.Summary, 0)
	for rows.Next() {
		var s course.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Lessons); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		if s.Lessons == nil {
			s.Lessons = []string{}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return summaries, nil
}

// GetByID returns the course with its quiz, or nil when the id is unknown.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	var c course.Course
	err := r.conn.QueryRow(ctx, `
		SELECT id, title, description, lessons
		FROM courses
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Title, &c.Description, &c.Lessons)
	if IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", id, err)
	}
	if c.Lessons == nil {
		c.Lessons = []string{}
	}

	questions, err := r.questions(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Quiz = course.Quiz{Questions: questions}

	return &c, nil
}

func (r *CourseRepository) questions(ctx context.Context, courseID string) ([]course.Question, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, text, choices
		FROM quiz_questions
		WHERE course_id = $1
		ORDER BY position, id
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz for %s: %w", courseID, err)
	}

	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (course.Question, error) {
		var q course.Question
		err := row.Scan(&q.ID, &q.Text, &q.Choices)
		if q.Choices == nil {
			q.Choices = []string{}
		}
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quiz for %s: %w", courseID, err)
	}
	return questions, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Seeding
// ─────────────────────────────────────────────────────────────────────────────

// SeedCourses upserts the given catalog in one transaction. Catalog order is
// stored as position so ListSummaries preserves it. Questions no longer
// present in a course are removed.
func (r *CourseRepository) SeedCourses(ctx context.Context, courses []*course.Course) error {
	if len(courses) == 0 {
		return nil
	}

	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		queued := 0

		for pos, c := range courses {
			batch.Queue(`
				INSERT INTO courses (id, position, title, description, lessons)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					position = EXCLUDED.position,
					title = EXCLUDED.title,
					description = EXCLUDED.description,
					lessons = EXCLUDED.lessons
			`, c.ID, pos, c.Title, c.Description, nonNil(c.Lessons))
			queued++

			batch.Queue(`DELETE FROM quiz_questions WHERE course_id = $1`, c.ID)
			queued++

			for qpos, q := range c.Quiz.Questions {
				batch.Queue(`
					INSERT INTO quiz_questions (course_id, id, position, text, choices)
					VALUES ($1, $2, $3, $4, $5)
				`, c.ID, q.ID, qpos, q.Text, nonNil(q.Choices))
				queued++
			}
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := 0; i < queued; i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}
		}
		return nil
	})
}

// CountCourses returns the number of stored courses.
func (r *CourseRepository) CountCourses(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
