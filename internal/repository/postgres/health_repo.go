package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rxlens/internal/port"
)

type healthRepo struct {
	db *sqlx.DB
}

// NewHealthRepo creates a new PostgreSQL-backed HealthRepository.
func NewHealthRepo(db *sqlx.DB) port.HealthRepository {
	return &healthRepo{db: db}
}

func (r *healthRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("healthRepo.Ping: %w", err)
	}
	return nil
}

func (r *healthRepo) Stats(ctx context.Context) (*port.DBStats, error) {
	var stats port.DBStats

	err := r.db.GetContext(ctx, &stats.PrescriptionCount,
		"SELECT COUNT(*) FROM prescriptions")
	if err != nil {
		return nil, fmt.Errorf("healthRepo.Stats prescriptions: %w", err)
	}
	err = r.db.GetContext(ctx, &stats.ResultCount,
		"SELECT COUNT(*) FROM extraction_results")
	if err != nil {
		return nil, fmt.Errorf("healthRepo.Stats results: %w", err)
	}
	err = r.db.GetContext(ctx, &stats.ConfigCount,
		"SELECT COUNT(*) FROM extraction_configs")
	if err != nil {
		return nil, fmt.Errorf("healthRepo.Stats configs: %w", err)
	}
	err = r.db.GetContext(ctx, &stats.DatabaseSize,
		"SELECT pg_size_pretty(pg_database_size(current_database()))")
	if err != nil {
		return nil, fmt.Errorf("healthRepo.Stats size: %w", err)
	}
	err = r.db.GetContext(ctx, &stats.TotalConnections,
		"SELECT COUNT(*) FROM pg_stat_activity WHERE datname = current_database()")
	if err != nil {
		return nil, fmt.Errorf("healthRepo.Stats connections: %w", err)
	}
	return &stats, nil
}
