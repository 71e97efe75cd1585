package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/acadly/records-be/internal/auth"
	"github.com/acadly/records-be/internal/services"
)

// TeacherHandler handles HTTP requests for the teacher role.
type TeacherHandler struct {
	service services.TeacherServiceProvider
	courses services.CourseServiceProvider
	issuer  *auth.TokenIssuer
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(service services.TeacherServiceProvider, courses services.CourseServiceProvider, issuer *auth.TokenIssuer) *TeacherHandler {
	return &TeacherHandler{service: service, courses: courses, issuer: issuer}
}

// TeacherRegisterPayload defines the structure for teacher registration.
// Experience and WorkingHour are pointers so an absent field can be told
// apart from a zero.
type TeacherRegisterPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Experience  *int   `json:"experience"`
	Department  string `json:"department"`
	WorkingHour *int   `json:"workingHour"`
}

// Register handles new teacher registration.
func (h *TeacherHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload TeacherRegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" || payload.Name == "" || payload.Department == "" || payload.Experience == nil || payload.WorkingHour == nil {
		writeError(w, http.StatusBadRequest, "All required teacher fields must be provided")
		return
	}
	if *payload.Experience < 0 {
		writeError(w, http.StatusBadRequest, "Experience must be a non-negative number")
		return
	}
	if *payload.WorkingHour <= 0 {
		writeError(w, http.StatusBadRequest, "Working hour must be a positive number")
		return
	}

	teacher, err := h.service.Register(r.Context(), payload.Username, payload.Password, payload.Name, *payload.Experience, payload.Department, *payload.WorkingHour)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			writeError(w, http.StatusConflict, "Teacher with this username already exists")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register teacher")
		writeError(w, http.StatusInternalServerError, "Failed to register teacher")
		return
	}

	token, err := h.issuer.Issue(auth.RoleTeacher, teacher.ID)
	if err != nil {
		log.Error().Err(err).Str("teacher_id", teacher.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Teacher registered successfully",
		"token":   token,
		"teacher": teacher,
	})
}

// Login handles teacher authentication and token generation.
func (h *TeacherHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	teacher, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed teacher authentication attempt")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to login teacher")
		writeError(w, http.StatusInternalServerError, "Failed to login teacher")
		return
	}

	token, err := h.issuer.Issue(auth.RoleTeacher, teacher.ID)
	if err != nil {
		log.Error().Err(err).Str("teacher_id", teacher.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"teacher": teacher,
	})
}

// GetProfile handles retrieving a teacher profile by ID.
func (h *TeacherHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	teacher, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Teacher not found")
			return
		}
		log.Error().Err(err).Str("teacher_id", id).Msg("Failed to get teacher")
		writeError(w, http.StatusInternalServerError, "Failed to fetch teacher profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"teacher": teacher})
}

// TeacherUpdatePayload defines the structure for partial profile updates.
type TeacherUpdatePayload struct {
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	Name        *string `json:"name"`
	Experience  *int    `json:"experience"`
	Department  *string `json:"department"`
	WorkingHour *int    `json:"workingHour"`
}

// Update handles a partial teacher profile update.
func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload TeacherUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Experience != nil && *payload.Experience < 0 {
		writeError(w, http.StatusBadRequest, "Experience must be a non-negative number")
		return
	}
	if payload.WorkingHour != nil && *payload.WorkingHour <= 0 {
		writeError(w, http.StatusBadRequest, "Working hour must be a positive number")
		return
	}

	teacher, err := h.service.Update(r.Context(), id, services.TeacherUpdate{
		Username:    payload.Username,
		Password:    payload.Password,
		Name:        payload.Name,
		Experience:  payload.Experience,
		Department:  payload.Department,
		WorkingHour: payload.WorkingHour,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Teacher not found")
		case errors.Is(err, services.ErrConflict):
			writeError(w, http.StatusConflict, "Username already in use")
		default:
			log.Error().Err(err).Str("teacher_id", id).Msg("Failed to update teacher")
			writeError(w, http.StatusInternalServerError, "Failed to update teacher profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Teacher profile updated successfully",
		"teacher": teacher,
	})
}

// GetCourses handles listing the courses a teacher instructs.
func (h *TeacherHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	courses, err := h.courses.ListByInstructor(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Teacher not found")
			return
		}
		log.Error().Err(err).Str("teacher_id", id).Msg("Failed to list teacher courses")
		writeError(w, http.StatusInternalServerError, "Failed to fetch teacher courses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}
