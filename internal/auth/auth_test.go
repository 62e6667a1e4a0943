package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/chubflix/character-creator/internal/apperror"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.GenerateToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	userID, err := v.VerifyHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("VerifyHeader returned error: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyHeaderRejectsMissingOrMalformed(t *testing.T) {
	v := NewVerifier("test-secret")

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer not-a-token"} {
		if _, err := v.VerifyHeader(header); !errors.Is(err, apperror.ErrUnauthenticated) {
			t.Fatalf("header %q: expected unauthenticated, got %v", header, err)
		}
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-a")
	verifier := NewVerifier("secret-b")

	token, err := issuer.GenerateToken("user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := verifier.VerifyToken(token); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for wrong secret, got %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	v := NewVerifier("test-secret")

	token, err := v.GenerateToken("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := v.VerifyToken(token); !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for expired token, got %v", err)
	}
}

func TestVerifyAccess(t *testing.T) {
	if err := VerifyAccess("user-1", "user-1"); err != nil {
		t.Fatalf("matching ids must pass, got %v", err)
	}
	if err := VerifyAccess("user-1", "user-2"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for mismatched ids, got %v", err)
	}
}
