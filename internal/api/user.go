package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/types"
)

func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := h.svc.Users.ListUsers(ctx, h.page(c))
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.renderUsers(ctx, middleware.CurrentUserID(c), res.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope(h, c, res.Count, res.Page, results))
}

// Register handles sign-up.
func (h *Handler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := h.svc.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.svc.Users.GetUser(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	subscribed, err := h.svc.Subscriptions.SubscribedSet(ctx, middleware.CurrentUserID(c), []uint{user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user, subscribed[user.ID]))
}

// Me returns the caller's own profile.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.svc.Users.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user, false))
}

func (h *Handler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	url, err := h.svc.Users.SetAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: url})
}

func (h *Handler) DeleteAvatar(c *gin.Context) {
	if err := h.svc.Users.DeleteAvatar(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	err := h.svc.Users.SetPassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions pages through the authors the caller follows, each with
// up to recipes_limit recipe previews.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	res, err := h.svc.Subscriptions.ListSubscriptions(c.Request.Context(), middleware.CurrentUserID(c), h.page(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	results := make([]types.SubscriptionResponse, 0, len(res.Items))
	for i := range res.Items {
		results = append(results, subscriptionResponse(&res.Items[i]))
	}
	c.JSON(http.StatusOK, envelope(h, c, res.Count, res.Page, results))
}

func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	summary, err := h.svc.Subscriptions.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subscriptionResponse(summary))
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Subscriptions.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
