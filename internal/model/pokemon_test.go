package model

import (
	"testing"
	"time"
)

func TestCategory_IsValid(t *testing.T) {
	t.Parallel()

	valid := []Category{CategoryCaught, CategoryWantToCatch, CategoryFavorites}
	for _, c := range valid {
		if !c.IsValid() {
			t.Errorf("expected %q to be valid", c)
		}
	}

	invalid := []Category{CategoryAll, "", "CAUGHT", "released", "want to catch"}
	for _, c := range invalid {
		if c.IsValid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestUser_Public(t *testing.T) {
	t.Parallel()

	now := time.Now()
	user := &User{
		ID:           "user-1",
		Email:        "ash@example.com",
		PasswordHash: "$argon2id$...",
		Name:         "Ash",
		CreatedAt:    now,
	}

	pub := user.Public()

	if pub.ID != "user-1" {
		t.Errorf("ID = %s, want user-1", pub.ID)
	}
	if pub.Email != "ash@example.com" {
		t.Errorf("Email = %s, want ash@example.com", pub.Email)
	}
	if pub.Name != "Ash" {
		t.Errorf("Name = %s, want Ash", pub.Name)
	}
	if !pub.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %s, want %s", pub.CreatedAt, now)
	}
}
