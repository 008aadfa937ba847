package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token. RegisteredClaims.ID
// carries the token id used for revocation on logout.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff,omitempty"`
}

// AuthUser is the identity attached to a request by the auth middleware.
type AuthUser struct {
	ID       uint
	Username string
	IsStaff  bool
	TokenID  string
}
