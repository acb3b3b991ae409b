package storage

import (
	"context"

	"github.com/poiesic/sapphire/core"
)

// VectorCache stores token vectors by content-derived ID.
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// GetVectors returns the cached vectors among ids. Missing ids are
	// absent from the result; a miss is not an error.
	GetVectors(ctx context.Context, ids ...core.ID) (map[core.ID][]float32, error)

	// PutVectors stores vectors, replacing any previous value for the same ID.
	PutVectors(ctx context.Context, vectors map[core.ID][]float32) error

	// Close releases resources held by the cache.
	Close() error
}

// CheckpointRepository persists batch job progress so interrupted jobs
// can resume.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint, setting its UpdatedAt timestamp.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a job.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, job string) (*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a job. Deleting a missing
	// checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, job string) error
}
