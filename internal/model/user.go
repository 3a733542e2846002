// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered account.
//
// WHY `json:"-"` ON PasswordHash?
// The hash must never leave the server. Tagging it "-" means encoding/json
// skips the field entirely, so even a handler that accidentally writes a
// full User cannot leak it. Services additionally return copies with the
// field zeroed (see User.Public).
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"` // unique
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Public returns a copy of u with the secret stripped.
func (u User) Public() *User {
	u.PasswordHash = ""
	return &u
}
