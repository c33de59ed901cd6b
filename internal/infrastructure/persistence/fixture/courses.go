// Package fixture serves the built-in course catalog from memory. It stands in
// for a backend dataset and is also the seed for the PostgreSQL catalog.
package fixture

import (
	"context"

	"github.com/alem-hub/learning-portal/internal/domain/course"
)

// Repository is a course.Repository over a fixed slice of courses.
type Repository struct {
	courses []*course.Course
	byID    map[string]*course.Course
}

// NewRepository creates a Repository over the built-in catalog.
func NewRepository() *Repository {
	return NewRepositoryWith(Courses())
}

// NewRepositoryWith creates a Repository over the given courses. Later
// duplicates of an id are ignored so lookups stay exact-match.
func NewRepositoryWith(courses []*course.Course) *Repository {
	r := &Repository{
		courses: make([]*course.Course, 0, len(courses)),
		byID:    make(map[string]*course.Course, len(courses)),
	}
	for _, c := range courses {
		if _, dup := r.byID[c.ID]; dup {
			continue
		}
		c = c.Clone()
		r.courses = append(r.courses, c)
		r.byID[c.ID] = c
	}
	return r
}

// ListSummaries returns every course in catalog order without quizzes.
func (r *Repository) ListSummaries(context.Context) ([]course.Summary, error) {
	out := make([]course.Summary, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c.Summary())
	}
	return out, nil
}

// GetByID returns a copy of the course, or nil for an unknown id.
func (r *Repository) GetByID(_ context.Context, id string) (*course.Course, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

// Courses returns a fresh copy of the built-in catalog.
func Courses() []*course.Course {
	return []*course.Course{
		{
			ID:          "c1",
			Title:       "Introduction to DevOps",
			Description: "Learn the fundamentals of DevOps practices including CI/CD, automation, and infrastructure management.",
			Lessons:     []string{"CI/CD Pipelines", "Infrastructure as Code", "Monitoring & Logging", "Container Orchestration", "GitOps Workflows"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "What does CI stand for?", Choices: []string{"Continuous Integration", "Code Inspection", "Central Intelligence", "Continuous Iteration"}},
				{ID: "q2", Text: "Which tool is commonly used for container orchestration?", Choices: []string{"Kubernetes", "Notepad", "Excel", "Paint"}},
			}},
		},
		{
			ID:          "c2",
			Title:       "React for Beginners",
			Description: "Build modern, interactive user interfaces with React - the most popular JavaScript library for web development.",
			Lessons:     []string{"Introduction to JSX", "Components & Props", "State Management", "Hooks Deep Dive", "React Router"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "What hook is used for state management?", Choices: []string{"useState", "useEffect", "useContext", "useRef"}},
				{ID: "q2", Text: "What does JSX stand for?", Choices: []string{"JavaScript XML", "Java Syntax Extension", "JSON XML", "JavaScript Extra"}},
			}},
		},
		{
			ID:          "c3",
			Title:       "Python Programming Masterclass",
			Description: "Master Python from basics to advanced concepts including data structures, OOP, and popular frameworks.",
			Lessons:     []string{"Python Basics", "Data Structures", "Object-Oriented Programming", "File Handling", "Web Scraping", "APIs and REST"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "Which of these is a Python web framework?", Choices: []string{"Django", "React", "Angular", "Vue"}},
				{ID: "q2", Text: "What is the correct file extension for Python files?", Choices: []string{".py", ".python", ".pt", ".p"}},
			}},
		},
		{
			ID:          "c4",
			Title:       "AWS Cloud Practitioner",
			Description: "Get started with Amazon Web Services and learn cloud computing fundamentals, core services, and best practices.",
			Lessons:     []string{"Cloud Computing Basics", "EC2 & Compute Services", "S3 & Storage Solutions", "Networking & VPC", "Security & IAM", "Cost Optimization"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "What does EC2 stand for?", Choices: []string{"Elastic Compute Cloud", "Easy Cloud Computing", "Elastic Container Cloud", "Enterprise Computing Cloud"}},
				{ID: "q2", Text: "Which AWS service is used for object storage?", Choices: []string{"S3", "EC2", "Lambda", "RDS"}},
			}},
		},
		{
			ID:          "c5",
			Title:       "Full Stack Web Development",
			Description: "Learn to build complete web applications from frontend to backend, databases, and deployment.",
			Lessons:     []string{"HTML & CSS Fundamentals", "JavaScript ES6+", "Node.js & Express", "Database Design", "RESTful APIs", "Authentication & Security"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "What does REST stand for?", Choices: []string{"Representational State Transfer", "Remote State Transfer", "Request State Transfer", "Real State Transfer"}},
				{ID: "q2", Text: "Which is a popular Node.js framework?", Choices: []string{"Express", "Django", "Flask", "Spring"}},
			}},
		},
		{
			ID:          "c6",
			Title:       "Machine Learning Fundamentals",
			Description: "Dive into the world of AI and machine learning with practical examples and real-world applications.",
			Lessons:     []string{"Introduction to ML", "Supervised Learning", "Unsupervised Learning", "Neural Networks", "Model Evaluation", "Deep Learning Basics"},
			Quiz: course.Quiz{Questions: []course.Question{
				{ID: "q1", Text: "Which algorithm is used for classification?", Choices: []string{"Decision Trees", "Linear Regression only", "K-Means only", "None"}},
				{ID: "q2", Text: "What library is commonly used for ML in Python?", Choices: []string{"scikit-learn", "jQuery", "Bootstrap", "Lodash"}},
			}},
		},
	}
}
