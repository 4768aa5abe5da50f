package auth

import (
	"testing"
)

var testSecret = []byte("test-signing-secret")

func TestGenerateToken_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-42", testSecret)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	userID, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != "user-42" {
		t.Errorf("userID = %s, want user-42", userID)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-42", testSecret)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := ParseToken(token, []byte("other-secret")); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not.a.token",
		"garbage",
	}

	for _, tok := range cases {
		if _, err := ParseToken(tok, testSecret); err != ErrInvalidToken {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestParseToken_MissingUserID(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("", testSecret)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := ParseToken(token, testSecret); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for empty user id, got %v", err)
	}
}
