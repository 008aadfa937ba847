package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *database.DB
	redis  *redis.Client
}

// New wires services and routes. redisClient may be nil, in which case
// recipe creation is not rate limited and logout cannot revoke tokens.
func New(cfg *config.Config, db *database.DB, redisClient *redis.Client, images service.ImageStore) *Server {
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	var revoker service.TokenRevoker
	var limiter gin.HandlerFunc
	if redisClient != nil {
		revoker = service.NewRedisTokenRevoker(redisClient)
		limiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitCount).Middleware()
	} else {
		logging.Warn().Msg("redis not configured; rate limiting and token revocation disabled")
	}

	svc := api.Services{
		Catalog:       service.NewCatalogService(db.DB),
		Recipes:       service.NewRecipeService(db.DB, images),
		Interactions:  service.NewInteractionService(db.DB),
		Subscriptions: service.NewSubscriptionService(db.DB),
		ShoppingList:  service.NewShoppingListService(db.DB),
		Users:         service.NewUserService(db.DB, images),
		Auth:          service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, revoker),
	}

	s := &Server{cfg: cfg, router: router, db: db, redis: redisClient}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.S3Bucket == "" && cfg.MediaDir != "" {
		router.Static(strings.TrimSuffix(cfg.MediaURL, "/"), cfg.MediaDir)
	}

	api.SetupAPI(router, svc, api.Options{
		PageSize:            cfg.PageSize,
		BaseURL:             cfg.BaseURL,
		RecipeCreateLimiter: limiter,
	})
	return s
}

// Router exposes the engine, mostly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok"}
	code := http.StatusOK
	if err := s.db.HealthCheck(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("database health check failed")
		status["status"], status["database"] = "unavailable", "unavailable"
		code = http.StatusServiceUnavailable
	}
	if s.redis != nil {
		status["redis"] = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("redis health check failed")
			status["redis"] = "unavailable"
		}
	}
	c.JSON(code, status)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
