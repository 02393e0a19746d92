package domain

import "time"

// User represents a registered account. Accounts created through the Google
// bridge carry a generated placeholder password hash and are verified from
// the start.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Userpic      *string   `json:"userpic" db:"userpic"`
	Verified     bool      `json:"verified" db:"verified"`
	Credits      int       `json:"credits" db:"credits"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
