// Package repository provides PostgreSQL persistence for predictions,
// snapshots and model performance metrics.
package repository

import (
	"fmt"

	"github.com/yourusername/prop-scout/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Snapshot   SnapshotRepository
	Prediction PredictionRepository
	Metric     MetricRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Snapshot:   NewPostgresSnapshotRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Metric:     NewPostgresMetricRepository(db),
	}, nil
}
