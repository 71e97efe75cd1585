package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/acadly/records-be/internal/auth"
	"github.com/acadly/records-be/internal/models"
	"github.com/acadly/records-be/internal/services"
)

// AdminHandler handles HTTP requests for the admin role.
type AdminHandler struct {
	service  services.AdminServiceProvider
	courses  services.CourseServiceProvider
	students services.StudentServiceProvider
	issuer   *auth.TokenIssuer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.AdminServiceProvider, courses services.CourseServiceProvider, students services.StudentServiceProvider, issuer *auth.TokenIssuer) *AdminHandler {
	return &AdminHandler{service: service, courses: courses, students: students, issuer: issuer}
}

// CredentialsPayload defines the structure for register and login requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new admin registration.
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.service.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			writeError(w, http.StatusConflict, "Admin with this username already exists")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register admin")
		writeError(w, http.StatusInternalServerError, "Failed to register admin")
		return
	}

	token, err := h.issuer.Issue(auth.RoleAdmin, admin.ID)
	if err != nil {
		log.Error().Err(err).Str("admin_id", admin.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin registered successfully",
		"token":   token,
		"admin":   admin,
	})
}

// Login handles admin authentication and token generation.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed admin authentication attempt")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to login admin")
		writeError(w, http.StatusInternalServerError, "Failed to login admin")
		return
	}

	token, err := h.issuer.Issue(auth.RoleAdmin, admin.ID)
	if err != nil {
		log.Error().Err(err).Str("admin_id", admin.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"admin":   admin,
	})
}

// CoursePayload defines the structure for course creation requests.
type CoursePayload struct {
	CourseName  string `json:"courseName"`
	CourseCode  string `json:"courseCode"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
	Instructor  string `json:"instructor"`
}

// CreateCourse handles course creation by an admin.
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var payload CoursePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.CourseName == "" || payload.CourseCode == "" || payload.Description == "" || payload.Instructor == "" {
		writeError(w, http.StatusBadRequest, "All course fields are required")
		return
	}
	if payload.Credits <= 0 {
		writeError(w, http.StatusBadRequest, "Credits must be a positive number")
		return
	}
	if len(payload.Description) > 500 {
		writeError(w, http.StatusBadRequest, "Description cannot exceed 500 characters")
		return
	}

	course, err := h.courses.Create(r.Context(), models.Course{
		CourseName:  payload.CourseName,
		CourseCode:  payload.CourseCode,
		Description: payload.Description,
		Credits:     payload.Credits,
		Instructor:  payload.Instructor,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Instructor not found")
			return
		}
		log.Error().Err(err).Str("course_code", payload.CourseCode).Msg("Failed to create course")
		writeError(w, http.StatusInternalServerError, "Failed to create course")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Course created successfully",
		"course":  course,
	})
}

// CollegePayload defines the structure for college registration requests.
type CollegePayload struct {
	CollegeUniqueID    string   `json:"collegeUniqueId"`
	CoursesOffered     []string `json:"coursesOffered"`
	ProgramsOffered    []string `json:"programsOffered"`
	ClassroomOccupancy *int     `json:"classroomOccupancy"`
	LabOccupancy       *int     `json:"labOccupancy"`
}

// RegisterCollege handles attaching or updating the college profile.
func (h *AdminHandler) RegisterCollege(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload CollegePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.CollegeUniqueID == "" {
		writeError(w, http.StatusBadRequest, "College unique ID is required")
		return
	}
	if payload.ClassroomOccupancy != nil && *payload.ClassroomOccupancy < 0 {
		writeError(w, http.StatusBadRequest, "Classroom occupancy must be a non-negative number")
		return
	}
	if payload.LabOccupancy != nil && *payload.LabOccupancy < 0 {
		writeError(w, http.StatusBadRequest, "Lab occupancy must be a non-negative number")
		return
	}

	admin, err := h.service.RegisterCollege(r.Context(), id, services.CollegeUpdate{
		CollegeUniqueID:    payload.CollegeUniqueID,
		CoursesOffered:     payload.CoursesOffered,
		ProgramsOffered:    payload.ProgramsOffered,
		ClassroomOccupancy: payload.ClassroomOccupancy,
		LabOccupancy:       payload.LabOccupancy,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Admin not found")
		case errors.Is(err, services.ErrConflict):
			writeError(w, http.StatusConflict, "College with this unique ID already exists")
		case errors.Is(err, services.ErrInvalidReference):
			writeError(w, http.StatusBadRequest, "One or more course IDs are invalid")
		default:
			log.Error().Err(err).Str("admin_id", id).Msg("Failed to register college")
			writeError(w, http.StatusInternalServerError, "Failed to register college")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "College registered successfully",
		"admin":   admin,
	})
}

// CapacityPayload defines the structure for capacity update requests.
type CapacityPayload struct {
	ClassroomOccupancy *int `json:"classroomOccupancy"`
	LabOccupancy       *int `json:"labOccupancy"`
}

// UpdateCapacity handles updating the occupancy counters.
func (h *AdminHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload CapacityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.ClassroomOccupancy == nil && payload.LabOccupancy == nil {
		writeError(w, http.StatusBadRequest, "At least one occupancy field is required")
		return
	}
	if payload.ClassroomOccupancy != nil && *payload.ClassroomOccupancy < 0 {
		writeError(w, http.StatusBadRequest, "Classroom occupancy must be a non-negative number")
		return
	}
	if payload.LabOccupancy != nil && *payload.LabOccupancy < 0 {
		writeError(w, http.StatusBadRequest, "Lab occupancy must be a non-negative number")
		return
	}

	admin, err := h.service.UpdateCapacity(r.Context(), id, payload.ClassroomOccupancy, payload.LabOccupancy)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		log.Error().Err(err).Str("admin_id", id).Msg("Failed to update capacity")
		writeError(w, http.StatusInternalServerError, "Failed to update capacity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Capacity updated successfully",
		"admin":   admin,
	})
}

// GetProfile handles retrieving an admin profile by ID.
func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	admin, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		log.Error().Err(err).Str("admin_id", id).Msg("Failed to get admin")
		writeError(w, http.StatusInternalServerError, "Failed to fetch admin profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"admin": admin})
}

// ListFeedbacks handles retrieving every student feedback entry.
func (h *AdminHandler) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.students.ListFeedbacks(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list student feedbacks")
		writeError(w, http.StatusInternalServerError, "Failed to fetch student feedbacks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"feedbacks": feedbacks})
}
