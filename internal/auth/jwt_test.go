package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", 24*time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer error: %v", err)
	}

	token, err := issuer.Issue(RoleStudent, "student-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if claims.Subject != "student-1" || claims.Role != RoleStudent {
		t.Fatalf("unexpected claims: subject=%q role=%q", claims.Subject, claims.Role)
	}
}

func TestIssuedTokensAreDistinct(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	first, err := issuer.Issue(RoleAdmin, "admin-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	second, err := issuer.Issue(RoleAdmin, "admin-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct tokens for repeated issuance")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	expired, _ := NewTokenIssuer("test-secret", -time.Minute)
	token, err := expired.Issue(RoleTeacher, "teacher-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	verifier, _ := NewTokenIssuer("test-secret", time.Hour)
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(RoleStudent, "student-1")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	other, _ := NewTokenIssuer("other-secret", time.Hour)
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}
