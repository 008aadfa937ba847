package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Login exchanges email and password for a token.
func (h *Handler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.svc.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		logging.Ctx(ctx).Debug().Str("email", req.Email).Msg("login rejected")
		respondError(c, err)
		return
	}
	token, err := h.svc.Auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{AuthToken: token})
}

// Logout revokes the token used for this request.
func (h *Handler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	expiresAt := time.Now().Add(24 * time.Hour)
	if v, ok := c.Get("token_expires_at"); ok {
		if t, ok := v.(time.Time); ok {
			expiresAt = t
		}
	}
	if err := h.svc.Auth.Logout(c.Request.Context(), user.TokenID, expiresAt); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
