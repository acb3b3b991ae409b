package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sapphire/core"
	"github.com/poiesic/sapphire/storage"
)

// VectorRepository implements storage.VectorCache for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorCache = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository. The repository does
// not own the backend; closing the repository leaves the backend open.
func NewVectorRepository(backend *Backend) *VectorRepository {
	return &VectorRepository{
		backend: backend,
	}
}

// GetVectors returns the cached vectors among ids in a single read transaction.
func (r *VectorRepository) GetVectors(ctx context.Context, ids ...core.ID) (map[core.ID][]float32, error) {
	found := make(map[core.ID][]float32, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := tx.Get(makeVectorKey(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				vector, err := storage.UnmarshalVector(val)
				if err != nil {
					return err
				}
				found[id] = vector
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return found, nil
}

// PutVectors stores vectors with a write batch.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors map[core.ID][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	return r.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for id, vector := range vectors {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := wb.Set(makeVectorKey(id), storage.MarshalVector(vector)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes every cached vector.
func (r *VectorRepository) Clear() error {
	return r.backend.DropPrefix(vectorPrefix)
}

// Close is a no-op; the backend is closed by its owner.
func (r *VectorRepository) Close() error {
	return nil
}
