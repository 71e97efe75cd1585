package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/acadly/records-be/internal/models"
)

// CourseServiceProvider defines the interface for course services.
type CourseServiceProvider interface {
	Create(ctx context.Context, course models.Course) (models.Course, error)
	ListByInstructor(ctx context.Context, teacherID string) ([]models.Course, error)
}

// CourseService provides business logic for course management.
type CourseService struct {
	db *sql.DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *sql.DB) *CourseService {
	return &CourseService{db: db}
}

// Create inserts a new course. The instructor must reference an existing
// teacher.
func (s *CourseService) Create(ctx context.Context, course models.Course) (models.Course, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM teachers WHERE id = ?", course.Instructor).Scan(&existing)
	if err == sql.ErrNoRows {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		return models.Course{}, err
	}

	course.ID = uuid.New().String()
	course.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO courses(id, course_name, course_code, description, credits, instructor, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		course.ID, course.CourseName, course.CourseCode, course.Description, course.Credits, course.Instructor, course.CreatedAt.Unix())
	if err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// ListByInstructor returns the courses taught by the given teacher with the
// instructor summary populated.
func (s *CourseService) ListByInstructor(ctx context.Context, teacherID string) ([]models.Course, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM teachers WHERE id = ?", teacherID).Scan(&existing)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.course_name, c.course_code, c.description, c.credits, c.instructor, t.username, t.name, c.created_at
		 FROM courses c JOIN teachers t ON t.id = c.instructor
		 WHERE c.instructor = ? ORDER BY c.created_at, c.rowid`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		var info models.InstructorRef
		var created int64
		if err := rows.Scan(&course.ID, &course.CourseName, &course.CourseCode, &course.Description, &course.Credits, &course.Instructor, &info.Username, &info.Name, &created); err != nil {
			return nil, err
		}
		info.ID = course.Instructor
		course.InstructorInfo = &info
		course.CreatedAt = time.Unix(created, 0).UTC()
		courses = append(courses, course)
	}
	return courses, rows.Err()
}
