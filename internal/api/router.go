package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/acadly/records-be/internal/api/handlers"
	"github.com/acadly/records-be/internal/auth"
	"github.com/acadly/records-be/internal/services"
)

// NewRouter creates and configures a new Chi router. One role-scoped guard is
// built per role store; a guard only ever resolves token subjects against its
// own store.
func NewRouter(
	issuer *auth.TokenIssuer,
	adminService services.AdminServiceProvider,
	teacherService services.TeacherServiceProvider,
	studentService services.StudentServiceProvider,
	courseService services.CourseServiceProvider,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	adminGuard := issuer.RequireRole(auth.RoleAdmin, func(ctx context.Context, id string) (interface{}, error) {
		admin, err := adminService.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return admin, nil
	})
	teacherGuard := issuer.RequireRole(auth.RoleTeacher, func(ctx context.Context, id string) (interface{}, error) {
		teacher, err := teacherService.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return teacher, nil
	})
	studentGuard := issuer.RequireRole(auth.RoleStudent, func(ctx context.Context, id string) (interface{}, error) {
		student, err := studentService.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return student, nil
	})

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(adminService, courseService, studentService, issuer)
	teacherHandler := handlers.NewTeacherHandler(teacherService, courseService, issuer)
	studentHandler := handlers.NewStudentHandler(studentService, issuer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/register", adminHandler.Register)
		r.Post("/login", adminHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(adminGuard)
			r.Post("/courses", adminHandler.CreateCourse)
			r.Get("/feedbacks/list", adminHandler.ListFeedbacks)
			r.Get("/{id}", adminHandler.GetProfile)
			r.With(auth.RequireSelf).Post("/{id}/college", adminHandler.RegisterCollege)
			r.With(auth.RequireSelf).Patch("/{id}/college", adminHandler.RegisterCollege)
			r.With(auth.RequireSelf).Patch("/{id}/capacity", adminHandler.UpdateCapacity)
		})
	})

	r.Route("/students", func(r chi.Router) {
		r.Post("/register", studentHandler.Register)
		r.Post("/login", studentHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(studentGuard)
			r.Get("/{id}", studentHandler.GetProfile)
			r.With(auth.RequireSelf).Patch("/{id}", studentHandler.Update)
			r.With(auth.RequireSelf).Post("/{id}/feedback", studentHandler.SubmitFeedback)
			r.With(auth.RequireSelf).Post("/{id}/courses", studentHandler.SelectCourses)
			r.Get("/{id}/courses", studentHandler.GetSelectedCourses)
		})
	})

	r.Route("/teachers", func(r chi.Router) {
		r.Post("/register", teacherHandler.Register)
		r.Post("/login", teacherHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(teacherGuard)
			r.Get("/{id}", teacherHandler.GetProfile)
			r.With(auth.RequireSelf).Patch("/{id}", teacherHandler.Update)
			r.Get("/{id}/courses", teacherHandler.GetCourses)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Route not found"}`))
	})

	return r
}
