package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadly/records-be/internal/models"
)

func TestAdminRegisterCollege(t *testing.T) {
	db := newTestDB(t)
	admins := NewAdminService(db, bcrypt.MinCost)
	teachers := NewTeacherService(db, bcrypt.MinCost)
	courses := NewCourseService(db)
	ctx := context.Background()

	a1, err := admins.Register(ctx, "root", "p1")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	a2, err := admins.Register(ctx, "dean", "p2")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	teacher, err := teachers.Register(ctx, "prof", "p3", "Prof. Smith", 5, "CS", 40)
	if err != nil {
		t.Fatalf("teacher register error: %v", err)
	}
	course, err := courses.Create(ctx, models.Course{
		CourseName: "Algorithms", CourseCode: "CS301", Description: "desc", Credits: 4, Instructor: teacher.ID,
	})
	if err != nil {
		t.Fatalf("course create error: %v", err)
	}

	updated, err := admins.RegisterCollege(ctx, a1.ID, CollegeUpdate{
		CollegeUniqueID: "COL-1",
		CoursesOffered:  []string{course.ID},
		ProgramsOffered: []string{"CS", "EE"},
	})
	if err != nil {
		t.Fatalf("register college error: %v", err)
	}
	if updated.College == nil || updated.College.CollegeUniqueID != "COL-1" {
		t.Fatalf("expected college on profile, got %+v", updated.College)
	}
	if len(updated.College.CoursesOffered) != 1 || updated.College.CoursesOffered[0] != course.ID {
		t.Fatalf("unexpected courses offered: %v", updated.College.CoursesOffered)
	}

	// Same college id on a different admin must conflict.
	if _, err := admins.RegisterCollege(ctx, a2.ID, CollegeUpdate{CollegeUniqueID: "COL-1"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Unknown course ids are rejected.
	if _, err := admins.RegisterCollege(ctx, a2.ID, CollegeUpdate{
		CollegeUniqueID: "COL-2",
		CoursesOffered:  []string{"no-such-course"},
	}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	if _, err := admins.RegisterCollege(ctx, "no-such-admin", CollegeUpdate{CollegeUniqueID: "COL-3"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminUpdateCapacity(t *testing.T) {
	db := newTestDB(t)
	admins := NewAdminService(db, bcrypt.MinCost)
	ctx := context.Background()

	admin, err := admins.Register(ctx, "root", "p1")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if _, err := admins.RegisterCollege(ctx, admin.ID, CollegeUpdate{CollegeUniqueID: "COL-1"}); err != nil {
		t.Fatalf("register college error: %v", err)
	}

	classroom := 12
	updated, err := admins.UpdateCapacity(ctx, admin.ID, &classroom, nil)
	if err != nil {
		t.Fatalf("capacity error: %v", err)
	}
	if updated.College == nil || updated.College.ClassroomOccupancy != 12 || updated.College.LabOccupancy != 0 {
		t.Fatalf("unexpected capacity result: %+v", updated.College)
	}

	if _, err := admins.UpdateCapacity(ctx, "no-such-admin", &classroom, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCourseCreateRequiresInstructor(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseService(db)
	ctx := context.Background()

	_, err := courses.Create(ctx, models.Course{
		CourseName: "Algorithms", CourseCode: "CS301", Description: "desc", Credits: 4, Instructor: "ghost",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
