package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity returns the principal this account authenticates as.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}
