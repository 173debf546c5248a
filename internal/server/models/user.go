// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account row. HashedPassword never leaves the backend.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
