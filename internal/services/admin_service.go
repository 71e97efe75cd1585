package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadly/records-be/internal/models"
)

// CollegeUpdate carries the college registration payload. CollegeUniqueID is
// required; the remaining fields are optional and nil means unchanged.
type CollegeUpdate struct {
	CollegeUniqueID    string
	CoursesOffered     []string
	ProgramsOffered    []string
	ClassroomOccupancy *int
	LabOccupancy       *int
}

// AdminServiceProvider defines the interface for admin services.
type AdminServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.Admin, error)
	Authenticate(ctx context.Context, username, password string) (models.Admin, error)
	GetByID(ctx context.Context, id string) (models.Admin, error)
	RegisterCollege(ctx context.Context, id string, upd CollegeUpdate) (models.Admin, error)
	UpdateCapacity(ctx context.Context, id string, classroom, lab *int) (models.Admin, error)
}

// AdminService provides business logic for the admin role store.
type AdminService struct {
	db         *sql.DB
	bcryptCost int
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *sql.DB, bcryptCost int) *AdminService {
	return &AdminService{db: db, bcryptCost: bcryptCost}
}

// Register creates a new admin, hashing their password.
func (s *AdminService) Register(ctx context.Context, username, password string) (models.Admin, error) {
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM admins WHERE username = ?", username).Scan(&existing)
	if err == nil {
		return models.Admin{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return models.Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.Admin{}, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.Admin{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO admins(id, username, password_hash, created_at) VALUES(?, ?, ?, ?)",
		admin.ID, admin.Username, string(hash), admin.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Admin{}, ErrConflict
		}
		return models.Admin{}, err
	}
	return admin, nil
}

// Authenticate verifies an admin's credentials. Unknown usernames and wrong
// passwords return the same error.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (models.Admin, error) {
	admin, hash, err := s.scanAdmin(ctx, "username", username)
	if err != nil {
		if err == ErrNotFound {
			return models.Admin{}, ErrInvalidCredentials
		}
		return models.Admin{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

// GetByID retrieves a single admin by their ID.
func (s *AdminService) GetByID(ctx context.Context, id string) (models.Admin, error) {
	admin, _, err := s.scanAdmin(ctx, "id", id)
	return admin, err
}

// RegisterCollege attaches or updates the college profile on an admin.
// Offered course ids must all exist and the college unique id must not be
// held by another admin.
func (s *AdminService) RegisterCollege(ctx context.Context, id string, upd CollegeUpdate) (models.Admin, error) {
	current, _, err := s.scanAdmin(ctx, "id", id)
	if err != nil {
		return models.Admin{}, err
	}

	var other string
	err = s.db.QueryRowContext(ctx, "SELECT id FROM admins WHERE college_unique_id = ? AND id <> ?", upd.CollegeUniqueID, id).Scan(&other)
	if err == nil {
		return models.Admin{}, ErrConflict
	}
	if err != sql.ErrNoRows {
		return models.Admin{}, err
	}

	if len(upd.CoursesOffered) > 0 {
		ok, err := s.coursesExist(ctx, upd.CoursesOffered)
		if err != nil {
			return models.Admin{}, err
		}
		if !ok {
			return models.Admin{}, ErrInvalidReference
		}
	}

	college := current.College
	if college == nil {
		college = &models.College{}
	}
	college.CollegeUniqueID = upd.CollegeUniqueID
	if upd.CoursesOffered != nil {
		college.CoursesOffered = upd.CoursesOffered
	}
	if upd.ProgramsOffered != nil {
		college.ProgramsOffered = upd.ProgramsOffered
	}
	if upd.ClassroomOccupancy != nil {
		college.ClassroomOccupancy = *upd.ClassroomOccupancy
	}
	if upd.LabOccupancy != nil {
		college.LabOccupancy = *upd.LabOccupancy
	}

	coursesJSON, err := json.Marshal(college.CoursesOffered)
	if err != nil {
		return models.Admin{}, err
	}
	programsJSON, err := json.Marshal(college.ProgramsOffered)
	if err != nil {
		return models.Admin{}, err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE admins SET college_unique_id = ?, courses_offered_json = ?, programs_offered_json = ?, classroom_occupancy = ?, lab_occupancy = ? WHERE id = ?",
		college.CollegeUniqueID, string(coursesJSON), string(programsJSON), college.ClassroomOccupancy, college.LabOccupancy, id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Admin{}, ErrConflict
		}
		return models.Admin{}, err
	}
	return s.GetByID(ctx, id)
}

// UpdateCapacity sets the classroom and/or lab occupancy counters.
func (s *AdminService) UpdateCapacity(ctx context.Context, id string, classroom, lab *int) (models.Admin, error) {
	current, _, err := s.scanAdmin(ctx, "id", id)
	if err != nil {
		return models.Admin{}, err
	}

	classroomVal := 0
	labVal := 0
	if current.College != nil {
		classroomVal = current.College.ClassroomOccupancy
		labVal = current.College.LabOccupancy
	}
	if classroom != nil {
		classroomVal = *classroom
	}
	if lab != nil {
		labVal = *lab
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE admins SET classroom_occupancy = ?, lab_occupancy = ? WHERE id = ?",
		classroomVal, labVal, id)
	if err != nil {
		return models.Admin{}, err
	}
	return s.GetByID(ctx, id)
}

// coursesExist reports whether every id in ids names an existing course.
func (s *AdminService) coursesExist(ctx context.Context, ids []string) (bool, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT id) FROM courses WHERE id IN ("+placeholders+")", args...).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == len(ids), nil
}

func (s *AdminService) scanAdmin(ctx context.Context, column, value string) (models.Admin, string, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, college_unique_id, courses_offered_json, programs_offered_json, classroom_occupancy, lab_occupancy, created_at FROM admins WHERE "+column+" = ?", value)

	var admin models.Admin
	var hash string
	var collegeID, coursesJSON, programsJSON sql.NullString
	var classroom, lab int
	var created int64
	err := row.Scan(&admin.ID, &admin.Username, &hash, &collegeID, &coursesJSON, &programsJSON, &classroom, &lab, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Admin{}, "", ErrNotFound
		}
		return models.Admin{}, "", err
	}
	admin.CreatedAt = time.Unix(created, 0).UTC()

	if collegeID.Valid {
		college := &models.College{
			CollegeUniqueID:    collegeID.String,
			CoursesOffered:     []string{},
			ProgramsOffered:    []string{},
			ClassroomOccupancy: classroom,
			LabOccupancy:       lab,
		}
		if coursesJSON.Valid && coursesJSON.String != "" {
			if err := json.Unmarshal([]byte(coursesJSON.String), &college.CoursesOffered); err != nil {
				return models.Admin{}, "", err
			}
		}
		if programsJSON.Valid && programsJSON.String != "" {
			if err := json.Unmarshal([]byte(programsJSON.String), &college.ProgramsOffered); err != nil {
				return models.Admin{}, "", err
			}
		}
		admin.College = college
	}
	return admin, hash, nil
}
