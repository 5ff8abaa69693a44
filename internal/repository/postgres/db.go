package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"rxlens/internal/config"
)

// Extraction attempts hold a connection for the duration of a provider
// round-trip, so idle connections are recycled instead of pinned forever.
const connMaxIdleTime = 5 * time.Minute

// NewDB opens the PostgreSQL pool used by all prescription repositories.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	return db, nil
}
