package models

import (
	"time"
)

// Task status values. Tasks are created as "processing" and move to
// "completed" once the completion worker picks them up.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether status is one of the known task statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusProcessing, StatusCompleted:
		return true
	default:
		return false
	}
}

// User never carries the password hash; credentials are scanned into
// handler-local structs so the hash cannot leak into a response.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
