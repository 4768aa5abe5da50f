package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pokelogger/pokelogger/internal/auth"
	"github.com/pokelogger/pokelogger/internal/model"
)

// fakeVerifier accepts a single known token.
type fakeVerifier struct {
	token string
	user  *model.User
}

func (v *fakeVerifier) VerifyToken(_ context.Context, token string) (*model.User, error) {
	if token == v.token {
		return v.user, nil
	}
	return nil, errors.New("invalid session")
}

func testAuthConfig(v TokenVerifier) AuthConfig {
	return AuthConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verifier: v,
	}
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	mw := Auth(testAuthConfig(&fakeVerifier{}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon/my-pokemon", nil)

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "Access token required" {
		t.Errorf("error = %q, want 'Access token required'", body["error"])
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	mw := Auth(testAuthConfig(&fakeVerifier{token: "good"}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon/my-pokemon", nil)
	req.Header.Set("Authorization", "Bearer bad")

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "Invalid token" {
		t.Errorf("error = %q, want 'Invalid token'", body["error"])
	}
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	user := &model.User{ID: "user-1", Email: "ash@example.com"}
	mw := Auth(testAuthConfig(&fakeVerifier{token: "good", user: user}))

	var gotUser *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon/my-pokemon", nil)
	req.Header.Set("Authorization", "Bearer good")

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUser == nil || gotUser.ID != "user-1" {
		t.Errorf("expected user-1 in request context, got %+v", gotUser)
	}
}

func TestAuth_NonBearerHeader(t *testing.T) {
	t.Parallel()

	mw := Auth(testAuthConfig(&fakeVerifier{token: "good"}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon/my-pokemon", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
