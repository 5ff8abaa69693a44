package port

import "context"

// DBStats is one sample of database health counters.
type DBStats struct {
	PrescriptionCount int64  `json:"prescriptionCount"`
	ResultCount       int64  `json:"resultCount"`
	ConfigCount       int64  `json:"configCount"`
	DatabaseSize      string `json:"databaseSize"`
	TotalConnections  int64  `json:"totalConnections"`
}

// HealthRepository reads database health counters.
type HealthRepository interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (*DBStats, error)
}
