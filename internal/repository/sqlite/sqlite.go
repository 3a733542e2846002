// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, so you need a C compiler and cross-compilation
// gets painful. modernc.org/sqlite is a pure Go translation of SQLite: no C
// toolchain, works everywhere Go works.
//
// LAYOUT:
// DB owns the connection pool and the schema. Each table gets its own small
// type (ItemDB, UserDB, BookDB) so that two repositories with a method
// called Create can live side by side:
//
//	db, _ := sqlite.New("data/crudauth.db")
//	items := db.Items()   // repository.ItemStore
//	users := db.Users()   // repository.UserRepository
//	books := db.Books()   // repository.BookRepository
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The sqlite package's init() registers a database/sql driver named
	// "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private, throwaway database.
const MemoryPath = ":memory:"

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// CONNECTION POOL:
// sql.Open() does NOT open a connection, it creates a pool manager. We Ping
// to surface a bad path or permissions problem now rather than on the first
// request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is its own empty database, so the pool
	// must never grow past one.
	if dbPath == MemoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) lets readers proceed while a write is in
	// flight. Default SQLite locks the whole file during writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Defer it right after New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. The health endpoint
// calls it.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

func (db *DB) Items() *ItemDB { return &ItemDB{conn: db.conn} }
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }
func (db *DB) Books() *BookDB { return &BookDB{conn: db.conn} }

// migrate creates the schema. CREATE ... IF NOT EXISTS makes every
// statement safe to re-run on an existing file.
func (db *DB) migrate() error {
	// items.id is NOT unique: ids are "count + 1" and may repeat after a
	// delete. seq preserves insertion order and picks the first match.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          INTEGER NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_items_id ON items(id);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			author     TEXT NOT NULL,
			year       INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating books table: %w", err)
	}

	return nil
}
