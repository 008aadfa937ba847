package api

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles the domain services the handlers call.
type Services struct {
	Catalog       *service.CatalogService
	Recipes       *service.RecipeService
	Interactions  *service.InteractionService
	Subscriptions *service.SubscriptionService
	ShoppingList  *service.ShoppingListService
	Users         *service.UserService
	Auth          *service.AuthService
}

// Handler serves the HTTP API on top of Services.
type Handler struct {
	svc      Services
	pageSize int
	baseURL  string
}

// Options configures the HTTP layer.
type Options struct {
	PageSize int
	// BaseURL is the public origin, used for short links and page links.
	BaseURL string
	// RecipeCreateLimiter, when set, guards recipe creation.
	RecipeCreateLimiter gin.HandlerFunc
}

func NewHandler(svc Services, opts Options) *Handler {
	return &Handler{
		svc:      svc,
		pageSize: opts.PageSize,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
	}
}

// SetupAPI installs the auth middleware and every route of the table on router.
func SetupAPI(router *gin.Engine, svc Services, opts Options) *Handler {
	RegisterValidators()

	h := NewHandler(svc, opts)
	router.Use(middleware.Authenticate(svc.Auth))
	Register(router, h.Routes(opts.RecipeCreateLimiter))
	return h
}

var registerOnce sync.Once

// RegisterValidators adds the custom validation tags to gin's binding engine
// and makes its errors report JSON field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := service.RegisterValidators(v); err != nil {
			panic(err)
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
