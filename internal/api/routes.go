package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Access is the authentication requirement of a route. Object-level checks
// (author or staff) happen in the services.
type Access int

const (
	Public Access = iota
	Authenticated
)

// Route is one entry of the HTTP table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Limiter gin.HandlerFunc
	Handler gin.HandlerFunc
}

// Routes returns the full route table.
func (h *Handler) Routes(createLimiter gin.HandlerFunc) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/tags/", Access: Public, Handler: h.ListTags},
		{Method: http.MethodGet, Path: "/api/tags/:id/", Access: Public, Handler: h.GetTag},
		{Method: http.MethodGet, Path: "/api/ingredients/", Access: Public, Handler: h.ListIngredients},
		{Method: http.MethodGet, Path: "/api/ingredients/:id/", Access: Public, Handler: h.GetIngredient},

		{Method: http.MethodGet, Path: "/api/recipes/", Access: Public, Handler: h.ListRecipes},
		{Method: http.MethodPost, Path: "/api/recipes/", Access: Authenticated, Limiter: createLimiter, Handler: h.CreateRecipe},
		{Method: http.MethodGet, Path: "/api/recipes/download_shopping_cart/", Access: Authenticated, Handler: h.DownloadShoppingCart},
		{Method: http.MethodGet, Path: "/api/recipes/:id/", Access: Public, Handler: h.GetRecipe},
		{Method: http.MethodPatch, Path: "/api/recipes/:id/", Access: Authenticated, Handler: h.UpdateRecipe},
		{Method: http.MethodDelete, Path: "/api/recipes/:id/", Access: Authenticated, Handler: h.DeleteRecipe},
		{Method: http.MethodGet, Path: "/api/recipes/:id/get-link/", Access: Public, Handler: h.GetLink},
		{Method: http.MethodPost, Path: "/api/recipes/:id/favorite/", Access: Authenticated, Handler: h.AddFavorite},
		{Method: http.MethodDelete, Path: "/api/recipes/:id/favorite/", Access: Authenticated, Handler: h.RemoveFavorite},
		{Method: http.MethodPost, Path: "/api/recipes/:id/shopping_cart/", Access: Authenticated, Handler: h.AddToShoppingCart},
		{Method: http.MethodDelete, Path: "/api/recipes/:id/shopping_cart/", Access: Authenticated, Handler: h.RemoveFromShoppingCart},

		{Method: http.MethodGet, Path: "/api/users/", Access: Public, Handler: h.ListUsers},
		{Method: http.MethodPost, Path: "/api/users/", Access: Public, Handler: h.Register},
		{Method: http.MethodGet, Path: "/api/users/me/", Access: Authenticated, Handler: h.Me},
		{Method: http.MethodPut, Path: "/api/users/me/avatar/", Access: Authenticated, Handler: h.SetAvatar},
		{Method: http.MethodDelete, Path: "/api/users/me/avatar/", Access: Authenticated, Handler: h.DeleteAvatar},
		{Method: http.MethodPost, Path: "/api/users/set_password/", Access: Authenticated, Handler: h.SetPassword},
		{Method: http.MethodGet, Path: "/api/users/subscriptions/", Access: Authenticated, Handler: h.ListSubscriptions},
		{Method: http.MethodGet, Path: "/api/users/:id/", Access: Public, Handler: h.GetUser},
		{Method: http.MethodPost, Path: "/api/users/:id/subscribe/", Access: Authenticated, Handler: h.Subscribe},
		{Method: http.MethodDelete, Path: "/api/users/:id/subscribe/", Access: Authenticated, Handler: h.Unsubscribe},

		{Method: http.MethodPost, Path: "/api/auth/token/login/", Access: Public, Handler: h.Login},
		{Method: http.MethodPost, Path: "/api/auth/token/logout/", Access: Authenticated, Handler: h.Logout},

		{Method: http.MethodGet, Path: "/s/:code/", Access: Public, Handler: h.ResolveShortLink},
	}
}

// Register adds every route to r with its access and limiter middleware.
func Register(r gin.IRoutes, routes []Route) {
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		if rt.Access == Authenticated {
			chain = append(chain, middleware.RequireAuth())
		}
		if rt.Limiter != nil {
			chain = append(chain, rt.Limiter)
		}
		chain = append(chain, rt.Handler)
		r.Handle(rt.Method, rt.Path, chain...)
	}
}
