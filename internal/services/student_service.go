package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadly/records-be/internal/models"
)

// StudentUpdate carries a partial profile update; nil fields are left unchanged.
type StudentUpdate struct {
	Username *string
	Password *string
	Age      *int
	Gender   *string
	Program  *string
	Feedback *string
}

// FeedbackEntry is one row of the admin-facing feedback listing.
type FeedbackEntry struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	Feedback    string `json:"feedback"`
}

// StudentServiceProvider defines the interface for student services.
type StudentServiceProvider interface {
	Register(ctx context.Context, username, password string, age int, gender, program, feedback string) (models.Student, error)
	Authenticate(ctx context.Context, username, password string) (models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	Update(ctx context.Context, id string, upd StudentUpdate) (models.Student, error)
	SubmitFeedback(ctx context.Context, id, feedback string) (models.Student, error)
	SelectCourses(ctx context.Context, id string, sel models.SelectedCourse) (models.SelectedCourse, error)
	ListSelectedCourses(ctx context.Context, id string) ([]models.SelectedCourse, error)
	ListFeedbacks(ctx context.Context) ([]FeedbackEntry, error)
}

// StudentService provides business logic for the student role store.
type StudentService struct {
	db         *sql.DB
	bcryptCost int
}

// NewStudentService creates a new StudentService.
func NewStudentService(db *sql.DB, bcryptCost int) *StudentService {
	return &StudentService{db: db, bcryptCost: bcryptCost}
}

// Register creates a new student after a username uniqueness check, hashing
// the password. A concurrent insert of the same username surfaces as
// ErrConflict through the store's unique index.
func (s *StudentService) Register(ctx context.Context, username, password string, age int, gender, program, feedback string) (models.Student, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM students WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return models.Student{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return models.Student{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.Student{}, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.Student{
		ID:              uuid.New().String(),
		Username:        username,
		Age:             age,
		Gender:          gender,
		Program:         program,
		Feedback:        feedback,
		SelectedCourses: []models.SelectedCourse{},
		CreatedAt:       time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO students(id, username, password_hash, age, gender, program, feedback, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		student.ID, student.Username, string(hash), student.Age, student.Gender, student.Program, nullableString(feedback), student.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Student{}, ErrConflict
		}
		return models.Student{}, err
	}
	return student, nil
}

// Authenticate verifies a student's credentials. Unknown usernames and wrong
// passwords return the same error.
func (s *StudentService) Authenticate(ctx context.Context, username, password string) (models.Student, error) {
	student, hash, err := s.scanStudent(ctx, "username", username)
	if err != nil {
		if err == ErrNotFound {
			return models.Student{}, ErrInvalidCredentials
		}
		return models.Student{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Student{}, ErrInvalidCredentials
	}
	student.SelectedCourses, err = s.listSelections(ctx, student.ID)
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// GetByID retrieves a single student with their selected courses populated.
func (s *StudentService) GetByID(ctx context.Context, id string) (models.Student, error) {
	student, _, err := s.scanStudent(ctx, "id", id)
	if err != nil {
		return models.Student{}, err
	}
	student.SelectedCourses, err = s.listSelections(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// Update applies a partial profile update. A username change is checked for
// uniqueness against the other students first.
func (s *StudentService) Update(ctx context.Context, id string, upd StudentUpdate) (models.Student, error) {
	current, hash, err := s.scanStudent(ctx, "id", id)
	if err != nil {
		return models.Student{}, err
	}

	if upd.Username != nil && *upd.Username != current.Username {
		var other string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM students WHERE username = ? AND id <> ?", *upd.Username, id).Scan(&other)
		if err == nil {
			return models.Student{}, ErrConflict
		}
		if err != sql.ErrNoRows {
			return models.Student{}, err
		}
		current.Username = *upd.Username
	}
	if upd.Password != nil {
		newHash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.bcryptCost)
		if err != nil {
			return models.Student{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(newHash)
	}
	if upd.Age != nil {
		current.Age = *upd.Age
	}
	if upd.Gender != nil {
		current.Gender = *upd.Gender
	}
	if upd.Program != nil {
		current.Program = *upd.Program
	}
	if upd.Feedback != nil {
		current.Feedback = *upd.Feedback
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE students SET username = ?, password_hash = ?, age = ?, gender = ?, program = ?, feedback = ? WHERE id = ?",
		current.Username, hash, current.Age, current.Gender, current.Program, nullableString(current.Feedback), id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Student{}, ErrConflict
		}
		return models.Student{}, err
	}
	return s.GetByID(ctx, id)
}

// SubmitFeedback sets the student's feedback string.
func (s *StudentService) SubmitFeedback(ctx context.Context, id, feedback string) (models.Student, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE students SET feedback = ? WHERE id = ?", feedback, id)
	if err != nil {
		return models.Student{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Student{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SelectCourses appends a new course-selection set for the student. Earlier
// sets are kept; nothing is replaced.
func (s *StudentService) SelectCourses(ctx context.Context, id string, sel models.SelectedCourse) (models.SelectedCourse, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM students WHERE id = ?", id).Scan(&existing)
	if err == sql.ErrNoRows {
		return models.SelectedCourse{}, ErrNotFound
	}
	if err != nil {
		return models.SelectedCourse{}, err
	}

	sel.ID = uuid.New().String()
	sel.StudentID = id
	sel.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO selected_courses(id, student_id, major1, major2, minor1, minor2, lab1, lab2, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		sel.ID, sel.StudentID, sel.Major1, sel.Major2, sel.Minor1, sel.Minor2, sel.Lab1, sel.Lab2, sel.CreatedAt.Unix())
	if err != nil {
		return models.SelectedCourse{}, err
	}
	return sel, nil
}

// ListSelectedCourses returns the student's selection sets, oldest first.
func (s *StudentService) ListSelectedCourses(ctx context.Context, id string) ([]models.SelectedCourse, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM students WHERE id = ?", id).Scan(&existing)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.listSelections(ctx, id)
}

// ListFeedbacks returns all students that have left non-empty feedback.
func (s *StudentService) ListFeedbacks(ctx context.Context) ([]FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, username, feedback FROM students WHERE feedback IS NOT NULL AND feedback <> ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []FeedbackEntry{}
	for rows.Next() {
		var e FeedbackEntry
		if err := rows.Scan(&e.StudentID, &e.StudentName, &e.Feedback); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// scanStudent fetches one student row by the given column, returning the
// record and its password hash separately so the hash never leaves this
// package inside a model.
func (s *StudentService) scanStudent(ctx context.Context, column, value string) (models.Student, string, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, age, gender, program, COALESCE(feedback, ''), created_at FROM students WHERE "+column+" = ?", value)

	var student models.Student
	var hash string
	var created int64
	err := row.Scan(&student.ID, &student.Username, &hash, &student.Age, &student.Gender, &student.Program, &student.Feedback, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Student{}, "", ErrNotFound
		}
		return models.Student{}, "", err
	}
	student.CreatedAt = time.Unix(created, 0).UTC()
	return student, hash, nil
}

func (s *StudentService) listSelections(ctx context.Context, studentID string) ([]models.SelectedCourse, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, student_id, major1, major2, minor1, minor2, lab1, lab2, created_at FROM selected_courses WHERE student_id = ? ORDER BY created_at, rowid", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := []models.SelectedCourse{}
	for rows.Next() {
		var sel models.SelectedCourse
		var created int64
		if err := rows.Scan(&sel.ID, &sel.StudentID, &sel.Major1, &sel.Major2, &sel.Minor1, &sel.Minor2, &sel.Lab1, &sel.Lab2, &created); err != nil {
			return nil, err
		}
		sel.CreatedAt = time.Unix(created, 0).UTC()
		selections = append(selections, sel)
	}
	return selections, rows.Err()
}

// nullableString maps an empty string to NULL for optional text columns.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
