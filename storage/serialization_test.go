package storage

import (
	"math"
	"testing"
	"time"

	"github.com/poiesic/sapphire/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVector(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{"empty", []float32{}},
		{"unit", []float32{1, 0, 0}},
		{"mixed", []float32{-0.25, 0.5, float32(math.Pi), 1e-7, -3e8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalVector(MarshalVector(tt.vector))
			require.NoError(t, err)
			assert.Equal(t, tt.vector, decoded)
		})
	}
}

func TestUnmarshalVector_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalVector([]byte{})
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated components", func(t *testing.T) {
		data := MarshalVector([]float32{1, 2, 3})
		_, err := UnmarshalVector(data[:len(data)-2])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name       string
		checkpoint *core.Checkpoint
	}{
		{
			name:       "fresh job",
			checkpoint: &core.Checkpoint{Job: "corpus.tsv", Completed: 0, UpdatedAt: now},
		},
		{
			name:       "resumed job",
			checkpoint: &core.Checkpoint{Job: "batch-7f3a", Completed: 125000, UpdatedAt: now},
		},
		{
			name:       "unicode job name",
			checkpoint: &core.Checkpoint{Job: "言い換え", Completed: 3, UpdatedAt: now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalCheckpoint(MarshalCheckpoint(tt.checkpoint))
			require.NoError(t, err)
			assert.Equal(t, tt.checkpoint.Job, decoded.Job)
			assert.Equal(t, tt.checkpoint.Completed, decoded.Completed)
			assert.True(t, tt.checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
		})
	}

	t.Run("truncated", func(t *testing.T) {
		data := MarshalCheckpoint(&core.Checkpoint{Job: "job", Completed: 10, UpdatedAt: now})
		_, err := UnmarshalCheckpoint(data[:4])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
