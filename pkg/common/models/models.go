package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity
type User struct {
	ID        uuid.UUID              `json:"id"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Specialty string                 `json:"specialty,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type RegisterRequest struct {
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Specialty string                 `json:"specialty,omitempty"`
	Password  string                 `json:"password"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // record.created, followup.created, image.appended
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
