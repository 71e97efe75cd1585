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

// maxFeedbackLen caps the student feedback string.
const maxFeedbackLen = 100

// StudentHandler handles HTTP requests for the student role.
type StudentHandler struct {
	service services.StudentServiceProvider
	issuer  *auth.TokenIssuer
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(service services.StudentServiceProvider, issuer *auth.TokenIssuer) *StudentHandler {
	return &StudentHandler{service: service, issuer: issuer}
}

// StudentRegisterPayload defines the structure for student registration.
type StudentRegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Program  string `json:"program"`
	Feedback string `json:"feedback"`
}

// Register handles new student registration.
func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload StudentRegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" || payload.Gender == "" || payload.Program == "" {
		writeError(w, http.StatusBadRequest, "All required student fields must be provided")
		return
	}
	if payload.Age <= 0 {
		writeError(w, http.StatusBadRequest, "Age must be a positive number")
		return
	}
	if len(payload.Feedback) > maxFeedbackLen {
		writeError(w, http.StatusBadRequest, "Feedback cannot exceed 100 characters")
		return
	}

	student, err := h.service.Register(r.Context(), payload.Username, payload.Password, payload.Age, payload.Gender, payload.Program, payload.Feedback)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			writeError(w, http.StatusConflict, "Student with this username already exists")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register student")
		writeError(w, http.StatusInternalServerError, "Failed to register student")
		return
	}

	token, err := h.issuer.Issue(auth.RoleStudent, student.ID)
	if err != nil {
		log.Error().Err(err).Str("student_id", student.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Student registered successfully",
		"token":   token,
		"student": student,
	})
}

// Login handles student authentication and token generation.
func (h *StudentHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	student, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed student authentication attempt")
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to login student")
		writeError(w, http.StatusInternalServerError, "Failed to login student")
		return
	}

	token, err := h.issuer.Issue(auth.RoleStudent, student.ID)
	if err != nil {
		log.Error().Err(err).Str("student_id", student.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"student": student,
	})
}

// GetProfile handles retrieving a student profile by ID.
func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	student, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Student not found")
			return
		}
		log.Error().Err(err).Str("student_id", id).Msg("Failed to get student")
		writeError(w, http.StatusInternalServerError, "Failed to fetch student profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"student": student})
}

// StudentUpdatePayload defines the structure for partial profile updates.
type StudentUpdatePayload struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
	Program  *string `json:"program"`
	Feedback *string `json:"feedback"`
}

// Update handles a partial student profile update.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload StudentUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Age != nil && *payload.Age <= 0 {
		writeError(w, http.StatusBadRequest, "Age must be a positive number")
		return
	}
	if payload.Feedback != nil && len(*payload.Feedback) > maxFeedbackLen {
		writeError(w, http.StatusBadRequest, "Feedback cannot exceed 100 characters")
		return
	}

	student, err := h.service.Update(r.Context(), id, services.StudentUpdate{
		Username: payload.Username,
		Password: payload.Password,
		Age:      payload.Age,
		Gender:   payload.Gender,
		Program:  payload.Program,
		Feedback: payload.Feedback,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Student not found")
		case errors.Is(err, services.ErrConflict):
			writeError(w, http.StatusConflict, "Username already in use")
		default:
			log.Error().Err(err).Str("student_id", id).Msg("Failed to update student")
			writeError(w, http.StatusInternalServerError, "Failed to update student profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Student profile updated successfully",
		"student": student,
	})
}

// FeedbackPayload defines the structure for feedback submissions.
type FeedbackPayload struct {
	Feedback string `json:"feedback"`
}

// SubmitFeedback handles a student leaving feedback.
func (h *StudentHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload FeedbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Feedback == "" {
		writeError(w, http.StatusBadRequest, "Feedback is required")
		return
	}
	if len(payload.Feedback) > maxFeedbackLen {
		writeError(w, http.StatusBadRequest, "Feedback cannot exceed 100 characters")
		return
	}

	student, err := h.service.SubmitFeedback(r.Context(), id, payload.Feedback)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Student not found")
			return
		}
		log.Error().Err(err).Str("student_id", id).Msg("Failed to submit feedback")
		writeError(w, http.StatusInternalServerError, "Failed to submit feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Feedback submitted successfully",
		"student": student,
	})
}

// SelectionPayload defines the structure for course-selection submissions.
type SelectionPayload struct {
	Major1 string `json:"major1"`
	Major2 string `json:"major2"`
	Minor1 string `json:"minor1"`
	Minor2 string `json:"minor2"`
	Lab1   string `json:"lab1"`
	Lab2   string `json:"lab2"`
}

// SelectCourses handles a student submitting a course-selection set.
func (h *StudentHandler) SelectCourses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload SelectionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Major1 == "" || payload.Major2 == "" || payload.Minor1 == "" || payload.Minor2 == "" || payload.Lab1 == "" || payload.Lab2 == "" {
		writeError(w, http.StatusBadRequest, "All course selections are required")
		return
	}

	selection, err := h.service.SelectCourses(r.Context(), id, models.SelectedCourse{
		Major1: payload.Major1,
		Major2: payload.Major2,
		Minor1: payload.Minor1,
		Minor2: payload.Minor2,
		Lab1:   payload.Lab1,
		Lab2:   payload.Lab2,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Student not found")
			return
		}
		log.Error().Err(err).Str("student_id", id).Msg("Failed to select courses")
		writeError(w, http.StatusInternalServerError, "Failed to select courses")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":        "Courses selected successfully",
		"selectedCourse": selection,
	})
}

// GetSelectedCourses handles listing a student's selection sets.
func (h *StudentHandler) GetSelectedCourses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	selections, err := h.service.ListSelectedCourses(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Student not found")
			return
		}
		log.Error().Err(err).Str("student_id", id).Msg("Failed to list selected courses")
		writeError(w, http.StatusInternalServerError, "Failed to fetch selected courses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"selectedCourses": selections})
}
