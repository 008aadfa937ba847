package main

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "foodgram-api",
		Short: "Foodgram recipe sharing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *database.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serve(ctx context.Context) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, continuing without it")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	images, err := service.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	logging.Info().Str("env", string(cfg.Env)).Str("db", cfg.DBDriver).Msg("starting foodgram api")
	return server.New(cfg, db, redisClient, images).Start()
}
