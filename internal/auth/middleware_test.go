package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// mapResolver resolves subjects from a fixed set of ids, standing in for a
// role store lookup.
func mapResolver(known ...string) Resolver {
	ids := make(map[string]struct{}, len(known))
	for _, id := range known {
		ids[id] = struct{}{}
	}
	return func(_ context.Context, subjectID string) (interface{}, error) {
		if _, ok := ids[subjectID]; ok {
			return map[string]string{"id": subjectID}, nil
		}
		return nil, errors.New("subject not found")
	}
}

func TestRequireRoleSuccessAttachesIdentity(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	var gotIdentity interface{}
	var gotClaims *Claims
	h := issuer.RequireRole(RoleStudent, mapResolver("student-1"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = r.Context().Value(IdentityKey)
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, _ := issuer.Issue(RoleStudent, "student-1")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotIdentity == nil {
		t.Fatalf("expected identity in context")
	}
	if gotClaims == nil || gotClaims.Subject != "student-1" {
		t.Fatalf("expected claims for student-1, got %+v", gotClaims)
	}
}

func TestRequireRoleUniformFailures(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	h := issuer.RequireRole(RoleStudent, mapResolver("student-1"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run on guard failure")
	}))

	teacherToken, _ := issuer.Issue(RoleTeacher, "student-1")
	unknownToken, _ := issuer.Issue(RoleStudent, "ghost")
	expiredIssuer, _ := NewTokenIssuer("test-secret", -time.Minute)
	expiredToken, _ := expiredIssuer.Issue(RoleStudent, "student-1")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"scheme only", "Bearer"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong role", "Bearer " + teacherToken},
		{"unknown subject", "Bearer " + unknownToken},
	}

	var firstBody string
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, rec.Code)
		}
		if firstBody == "" {
			firstBody = rec.Body.String()
			continue
		}
		if rec.Body.String() != firstBody {
			t.Fatalf("%s: expected uniform response body, got %q vs %q", tc.name, rec.Body.String(), firstBody)
		}
	}
}

func TestRequireSelfBindsSubjectToPathParam(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	r := chi.NewRouter()
	r.With(issuer.RequireRole(RoleStudent, mapResolver("student-1")), RequireSelf).
		Patch("/students/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	token, _ := issuer.Issue(RoleStudent, "student-1")

	req := httptest.NewRequest(http.MethodPatch, "/students/student-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own record, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/students/student-2", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for another student's record, got %d", rec.Code)
	}
}
