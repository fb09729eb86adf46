package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	IsVerified   bool      `json:"isVerified"`
	// VerificationToken is the single pending email-verification token,
	// nil once the address is verified.
	VerificationToken *string   `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}
