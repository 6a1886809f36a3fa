package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user of the tracker
type User struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"` // OIDC subject claim
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JWTClaims holds the claims extracted from a verified bearer token
type JWTClaims struct {
	Sub   string
	Email string
	Name  string
	Iss   string
	Aud   string
	Exp   int64
	Iat   int64
}
