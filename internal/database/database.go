package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm handle together with the underlying pool.
type DB struct {
	*gorm.DB
	sql *sql.DB
}

// New opens the database configured by cfg. Postgres goes through lib/pq;
// sqlite is used for development and tests.
func New(cfg *config.Config) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case "postgres":
		logging.Info().
			Str("host", cfg.DBHost).
			Str("port", cfg.DBPort).
			Str("user", cfg.DBUser).
			Msg("connecting to postgres")

		sqlDB, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error connecting to the database: %w", err)
		}

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error initializing gorm: %w", err)
		}
		return &DB{DB: db, sql: sqlDB}, nil

	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, gormCfg)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens (creating if needed) a sqlite database at path with
// foreign keys enforced.
func OpenSQLite(path string, gormCfg *gorm.Config) (*DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY inside transactions.
	sqlDB.SetMaxOpenConns(1)

	logging.Info().Str("path", path).Msg("using sqlite database")
	return &DB{DB: db, sql: sqlDB}, nil
}

// Migrate creates or updates the schema for every model.
func (db *DB) Migrate() error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db.backfillIngredientNames()
}

// backfillIngredientNames fills name_lower for rows written before the column
// existed.
func (db *DB) backfillIngredientNames() error {
	var rows []models.Ingredient
	if err := db.Where("name_lower = ?", "").Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to read ingredients: %w", err)
	}
	for i := range rows {
		if err := db.Model(&rows[i]).Update("name_lower", strings.ToLower(rows[i].Name)).Error; err != nil {
			return fmt.Errorf("failed to backfill ingredient %d: %w", rows[i].ID, err)
		}
	}
	if len(rows) > 0 {
		logging.Info().Int("rows", len(rows)).Msg("backfilled ingredient search names")
	}
	return nil
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.sql.Close()
}
