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

// TeacherUpdate carries a partial profile update; nil fields are left unchanged.
type TeacherUpdate struct {
	Username    *string
	Password    *string
	Name        *string
	Experience  *int
	Department  *string
	WorkingHour *int
}

// TeacherServiceProvider defines the interface for teacher services.
type TeacherServiceProvider interface {
	Register(ctx context.Context, username, password, name string, experience int, department string, workingHour int) (models.Teacher, error)
	Authenticate(ctx context.Context, username, password string) (models.Teacher, error)
	GetByID(ctx context.Context, id string) (models.Teacher, error)
	Update(ctx context.Context, id string, upd TeacherUpdate) (models.Teacher, error)
}

// TeacherService provides business logic for the teacher role store.
type TeacherService struct {
	db         *sql.DB
	bcryptCost int
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(db *sql.DB, bcryptCost int) *TeacherService {
	return &TeacherService{db: db, bcryptCost: bcryptCost}
}

// Register creates a new teacher, hashing their password.
func (s *TeacherService) Register(ctx context.Context, username, password, name string, experience int, department string, workingHour int) (models.Teacher, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM teachers WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return models.Teacher{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return models.Teacher{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.Teacher{}, fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := models.Teacher{
		ID:          uuid.New().String(),
		Username:    username,
		Name:        name,
		Experience:  experience,
		Department:  department,
		WorkingHour: workingHour,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO teachers(id, username, password_hash, name, experience, department, working_hour, created_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		teacher.ID, teacher.Username, string(hash), teacher.Name, teacher.Experience, teacher.Department, teacher.WorkingHour, teacher.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Teacher{}, ErrConflict
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

// Authenticate verifies a teacher's credentials. Unknown usernames and wrong
// passwords return the same error.
func (s *TeacherService) Authenticate(ctx context.Context, username, password string) (models.Teacher, error) {
	teacher, hash, err := s.scanTeacher(ctx, "username", username)
	if err != nil {
		if err == ErrNotFound {
			return models.Teacher{}, ErrInvalidCredentials
		}
		return models.Teacher{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Teacher{}, ErrInvalidCredentials
	}
	return teacher, nil
}

// GetByID retrieves a single teacher by their ID.
func (s *TeacherService) GetByID(ctx context.Context, id string) (models.Teacher, error) {
	teacher, _, err := s.scanTeacher(ctx, "id", id)
	return teacher, err
}

// Update applies a partial profile update. A username change is checked for
// uniqueness against the other teachers first.
func (s *TeacherService) Update(ctx context.Context, id string, upd TeacherUpdate) (models.Teacher, error) {
	current, hash, err := s.scanTeacher(ctx, "id", id)
	if err != nil {
		return models.Teacher{}, err
	}

	if upd.Username != nil && *upd.Username != current.Username {
		var other string
		err := s.db.QueryRowContext(ctx, "SELECT id FROM teachers WHERE username = ? AND id <> ?", *upd.Username, id).Scan(&other)
		if err == nil {
			return models.Teacher{}, ErrConflict
		}
		if err != sql.ErrNoRows {
			return models.Teacher{}, err
		}
		current.Username = *upd.Username
	}
	if upd.Password != nil {
		newHash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.bcryptCost)
		if err != nil {
			return models.Teacher{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(newHash)
	}
	if upd.Name != nil {
		current.Name = *upd.Name
	}
	if upd.Experience != nil {
		current.Experience = *upd.Experience
	}
	if upd.Department != nil {
		current.Department = *upd.Department
	}
	if upd.WorkingHour != nil {
		current.WorkingHour = *upd.WorkingHour
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE teachers SET username = ?, password_hash = ?, name = ?, experience = ?, department = ?, working_hour = ? WHERE id = ?",
		current.Username, hash, current.Name, current.Experience, current.Department, current.WorkingHour, id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Teacher{}, ErrConflict
		}
		return models.Teacher{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *TeacherService) scanTeacher(ctx context.Context, column, value string) (models.Teacher, string, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, name, experience, department, working_hour, created_at FROM teachers WHERE "+column+" = ?", value)

	var teacher models.Teacher
	var hash string
	var created int64
	err := row.Scan(&teacher.ID, &teacher.Username, &hash, &teacher.Name, &teacher.Experience, &teacher.Department, &teacher.WorkingHour, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Teacher{}, "", ErrNotFound
		}
		return models.Teacher{}, "", err
	}
	teacher.CreatedAt = time.Unix(created, 0).UTC()
	return teacher, hash, nil
}
