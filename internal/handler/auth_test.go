package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/service"
)

// fakeAccountService returns canned sessions or errors.
type fakeAccountService struct {
	session *service.Session
	err     error
}

func (f *fakeAccountService) Register(_ context.Context, email, password, name string) (*service.Session, error) {
	return f.session, f.err
}

func (f *fakeAccountService) Login(_ context.Context, email, password string) (*service.Session, error) {
	return f.session, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{
		session: &service.Session{
			Token: "signed-token",
			User:  model.PublicUser{ID: "user-1", Email: "ash@example.com", Name: "Ash"},
		},
	}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ash@example.com","password":"pikachu123","name":"Ash"}`))

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["token"] != "signed-token" {
		t.Errorf("token = %v, want signed-token", body["token"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatal("expected user object in response")
	}
	if user["email"] != "ash@example.com" {
		t.Errorf("user.email = %v, want ash@example.com", user["email"])
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{err: service.ErrMissingFields}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ash@example.com"}`))

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "All fields are required" {
		t.Errorf("error = %v, want 'All fields are required'", body["error"])
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{err: service.ErrEmailExists}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ash@example.com","password":"x","name":"Ash"}`))

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Email already exists" {
		t.Errorf("error = %v, want 'Email already exists'", body["error"])
	}
}

func TestAuthHandler_Register_BadBody(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{
		session: &service.Session{
			Token: "signed-token",
			User:  model.PublicUser{ID: "user-1"},
		},
	}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ash@example.com","password":"pikachu123"}`))

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["token"] != "signed-token" {
		t.Errorf("token = %v, want signed-token", body["token"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&fakeAccountService{err: service.ErrInvalidCredentials}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ash@example.com","password":"wrong"}`))

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid credentials" {
		t.Errorf("error = %v, want 'Invalid credentials'", body["error"])
	}
}
