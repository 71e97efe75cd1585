package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/acadly/records-be/internal/database"
	"github.com/acadly/records-be/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStudentRegisterAndAuthenticate(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	student, err := svc.Register(ctx, "alice", "p1", 20, "F", "CS", "")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if student.ID == "" || student.Username != "alice" {
		t.Fatalf("unexpected student: %+v", student)
	}

	got, err := svc.Authenticate(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}
	if got.ID != student.ID {
		t.Fatalf("expected id %s, got %s", student.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "p1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown username, got %v", err)
	}
}

func TestStudentDuplicateUsername(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "p1", 20, "F", "CS", ""); err != nil {
		t.Fatalf("first register error: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "p2", 21, "F", "EE", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestStudentConcurrentRegistration(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(ctx, "alice", "p1", 20, "F", "CS", "")
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", ok, conflict)
	}
}

func TestStudentUpdateUsernameConflict(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "p1", 20, "F", "CS", ""); err != nil {
		t.Fatalf("register error: %v", err)
	}
	bob, err := svc.Register(ctx, "bob", "p2", 22, "M", "EE", "")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	taken := "alice"
	if _, err := svc.Update(ctx, bob.ID, StudentUpdate{Username: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	newAge := 23
	updated, err := svc.Update(ctx, bob.ID, StudentUpdate{Age: &newAge})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Age != 23 || updated.Username != "bob" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestStudentFeedbackListing(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "p1", 20, "F", "CS", "")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "p2", 22, "M", "EE", ""); err != nil {
		t.Fatalf("register error: %v", err)
	}

	if _, err := svc.SubmitFeedback(ctx, alice.ID, "great courses"); err != nil {
		t.Fatalf("feedback error: %v", err)
	}
	if _, err := svc.SubmitFeedback(ctx, "no-such-id", "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entries, err := svc.ListFeedbacks(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one feedback entry, got %d", len(entries))
	}
	if entries[0].StudentID != alice.ID || entries[0].StudentName != "alice" || entries[0].Feedback != "great courses" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestStudentSelectionsAppend(t *testing.T) {
	svc := NewStudentService(newTestDB(t), bcrypt.MinCost)
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "p1", 20, "F", "CS", "")
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	first, err := svc.SelectCourses(ctx, alice.ID, models.SelectedCourse{
		Major1: "CS101", Major2: "CS102", Minor1: "MA101", Minor2: "MA102", Lab1: "L1", Lab2: "L2",
	})
	if err != nil {
		t.Fatalf("select error: %v", err)
	}
	second, err := svc.SelectCourses(ctx, alice.ID, models.SelectedCourse{
		Major1: "CS201", Major2: "CS202", Minor1: "MA201", Minor2: "MA202", Lab1: "L3", Lab2: "L4",
	})
	if err != nil {
		t.Fatalf("select error: %v", err)
	}

	selections, err := svc.ListSelectedCourses(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(selections) != 2 {
		t.Fatalf("expected both selection sets to be kept, got %d", len(selections))
	}
	if selections[0].ID != first.ID || selections[1].ID != second.ID {
		t.Fatalf("expected selections in submission order")
	}

	profile, err := svc.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(profile.SelectedCourses) != 2 {
		t.Fatalf("expected populated selections on profile, got %d", len(profile.SelectedCourses))
	}
}
