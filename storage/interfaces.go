package storage

import (
	"context"

	"github.com/google/uuid"

	"housing-stats/dataset"
	"housing-stats/models"
)

// SnapshotWriter is the interface any target for scraped snapshots must satisfy.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, snap *models.Snapshot, batch uuid.UUID) error
}

// DailyWriter persists a generated daily table.
type DailyWriter interface {
	WriteDaily(ctx context.Context, t *dataset.DailyTable, batch uuid.UUID) error
}
