package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/types"
)

const userKey = "auth_user"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// Authenticate attaches the caller's identity when an Authorization header
// is present. Requests without one continue anonymously; a malformed or
// invalid token is rejected with 401.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || (scheme != "Token" && scheme != "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header format."})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
			return
		}

		user := &types.AuthUser{
			ID:       claims.UserID,
			Username: claims.Username,
			IsStaff:  claims.IsStaff,
			TokenID:  claims.ID,
		}
		c.Set(userKey, user)
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller or nil.
func CurrentUser(c *gin.Context) *types.AuthUser {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*types.AuthUser)
	return user
}

// CurrentUserID returns 0 for anonymous callers.
func CurrentUserID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
