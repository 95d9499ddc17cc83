package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJTI builds the token id binding an access token to its refresh chain.
func NewJTI() string {
	return "JTI" + uuid.NewString()
}

// NewRefreshSecret builds the opaque refresh secret. Two concatenated UUIDs
// make collisions across rows a non-concern.
func NewRefreshSecret() string {
	return uuid.NewString() + "-" + uuid.NewString()
}
