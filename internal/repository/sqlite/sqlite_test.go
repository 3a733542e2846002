package sqlite

import (
	"path/filepath"
	"testing"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test.
// Fast (no disk I/O), isolated (each test gets its own) and clean
// (destroyed when the connection closes).
//
// t.Helper() makes failures point at the caller's line, not this one.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crudauth.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() first open error = %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer second.Close()

	if err := second.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNew_BadPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "dir", "x.db")); err == nil {
		t.Fatal("New() expected an error for a path in a missing directory")
	}
}
