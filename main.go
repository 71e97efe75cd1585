package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acadly/records-be/internal/api"
	"github.com/acadly/records-be/internal/auth"
	"github.com/acadly/records-be/internal/config"
	"github.com/acadly/records-be/internal/database"
	"github.com/acadly/records-be/internal/logger"
	"github.com/acadly/records-be/internal/services"
)

func main() {
	// Load configuration; a missing signing secret aborts here, before any
	// request can be served.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init()

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the token issuer
	issuer, err := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}

	// Set up services
	adminService := services.NewAdminService(db, cfg.BcryptCost)
	teacherService := services.NewTeacherService(db, cfg.BcryptCost)
	studentService := services.NewStudentService(db, cfg.BcryptCost)
	courseService := services.NewCourseService(db)

	// Set up router
	router := api.NewRouter(issuer, adminService, teacherService, studentService, courseService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
