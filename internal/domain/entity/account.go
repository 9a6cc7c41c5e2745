// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Account is a registered identity. It is created once and never modified.
type Account struct {
	ID           int64     // Assigned by the store on creation.
	Username     string    // Unique across all accounts, 1-50 bytes.
	Email        string    // Unique across all accounts, 1-100 bytes.
	PasswordHash string    // bcrypt output. Must never leave the usecase layer.
	CreatedAt    time.Time // Set by the store on creation.
}

// AccountDraft carries the caller-supplied fields of an account that has not been persisted yet.
type AccountDraft struct {
	Username     string
	Email        string
	PasswordHash string
}
