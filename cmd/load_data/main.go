package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/loader"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "load_data",
		Short:        "Load reference data into the Foodgram database",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newIngredientsCmd())
	rootCmd.AddCommand(newTagsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newIngredientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingredients <file.csv|file.json>",
		Short: "Import ingredients, skipping existing (name, unit) pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, format, err := loader.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := loader.ReadIngredients(f, format)
			if err != nil {
				return err
			}
			return withCatalog(cmd.Context(), func(ctx context.Context, catalog *service.CatalogService) error {
				res, err := catalog.ImportIngredients(ctx, rows)
				if err != nil {
					return err
				}
				report(cmd, args[0], res)
				return nil
			})
		},
	}
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <file.csv|file.json>",
		Short: "Import tags, skipping existing slugs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, format, err := loader.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := loader.ReadTags(f, format)
			if err != nil {
				return err
			}
			return withCatalog(cmd.Context(), func(ctx context.Context, catalog *service.CatalogService) error {
				res, err := catalog.ImportTags(ctx, rows)
				if err != nil {
					return err
				}
				report(cmd, args[0], res)
				return nil
			})
		},
	}
}

func withCatalog(ctx context.Context, fn func(context.Context, *service.CatalogService) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	return fn(ctx, service.NewCatalogService(db.DB))
}

func report(cmd *cobra.Command, path string, res service.ImportResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s: %d created, %d skipped\n", path, res.Created, res.Skipped)
}
