package domain

import "time"

// User represents a registered account.
// Users own bookmarks; ownership is the basis for the visibility model.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
