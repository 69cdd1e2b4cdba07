package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"episbc/internal/config"
	apperrors "episbc/internal/errors"
)

// Connect opens a PostgreSQL connection pool with the configured limits
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, apperrors.StorageError("failed to connect to database", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	return db, nil
}
