package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pikachu123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should be in PHC format, got %s", hash)
	}
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ")
	}
}

func TestVerifyPassword_Match(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	match, err := VerifyPassword("correct-horse", hash)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !match {
		t.Error("expected password to match its own hash")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	match, err := VerifyPassword("wrong-horse", hash)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if match {
		t.Error("expected wrong password to not match")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
	}

	for _, h := range cases {
		if _, err := VerifyPassword("whatever", h); err == nil {
			t.Errorf("expected error for hash %q", h)
		}
	}
}
