// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. HashedPassword never leaves the server.
type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is what the owner sees on their own page.
type Profile struct {
	User      *User   `json:"user"`
	Notes     []*Note `json:"notes"`
	CSRFToken string  `json:"csrf_token"`
}
