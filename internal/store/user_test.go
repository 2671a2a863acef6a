package store

import (
	"database/sql"
	"testing"

	"github.com/hartmanbaily-coder/losttofound/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserCreate(t *testing.T) {
	s := NewUserStore(setupTestDB(t))

	u, err := s.Create("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter22" {
		t.Error("password not hashed")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	s := NewUserStore(setupTestDB(t))

	if _, err := s.Create("alice@example.com", "hunter22"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Create("alice@example.com", "hunter23"); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	s := NewUserStore(setupTestDB(t))

	u, err := s.GetByID(999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent id")
	}
}

func TestUserAuthenticate(t *testing.T) {
	s := NewUserStore(setupTestDB(t))

	created, err := s.Create("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := s.Authenticate("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatal("expected matching user for correct password")
	}

	u, err = s.Authenticate("alice@example.com", "wrong")
	if err != nil {
		t.Fatalf("authenticate wrong password: %v", err)
	}
	if u != nil {
		t.Error("expected nil for wrong password")
	}

	u, err = s.Authenticate("nobody@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate unknown email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}
}
