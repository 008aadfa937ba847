package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutRevokesToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := testhelpers.SetupRedis(t)

	db := testhelpers.SetupSQLite(t).DB
	images := testhelpers.NewMemoryImageStore()
	auth := service.NewAuthService("test-secret", time.Hour, service.NewRedisTokenRevoker(client))
	router := gin.New()
	api.SetupAPI(router, api.Services{
		Catalog:       service.NewCatalogService(db),
		Recipes:       service.NewRecipeService(db, images),
		Interactions:  service.NewInteractionService(db),
		Subscriptions: service.NewSubscriptionService(db),
		ShoppingList:  service.NewShoppingListService(db),
		Users:         service.NewUserService(db, images),
		Auth:          auth,
	}, api.Options{BaseURL: baseURL})

	user := testhelpers.CreateUser(t, db, "cook")
	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	call := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil).WithContext(context.Background())
		req.Header.Set("Authorization", "Token "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/users/me/"))
	assert.Equal(t, http.StatusNoContent, call(http.MethodPost, "/api/auth/token/logout/"))
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/users/me/"))
}

func TestRouteTableAccess(t *testing.T) {
	h := api.NewHandler(api.Services{}, api.Options{})
	seen := map[string]bool{}
	for _, rt := range h.Routes(nil) {
		key := rt.Method + " " + rt.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		require.NotNil(t, rt.Handler, key)
		if rt.Method != http.MethodGet && key != "POST /api/users/" && key != "POST /api/auth/token/login/" {
			assert.Equal(t, api.Authenticated, rt.Access, key)
		}
	}
}
