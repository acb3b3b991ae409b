// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sapphire/core"
)

// MarshalVector serializes a vector as its length followed by fixed-width components.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, v := range vector {
		size += raw.Float32.Size(v)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, v := range vector {
		n += raw.Float32.Marshal(v, buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 || length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: vector of %d components in %d bytes", ErrTruncatedData, length, len(data)-n)
	}
	vector := make([]float32, length)
	for i := range vector {
		v, m, err := raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector component %d: %w", ErrSerializationFailed, i, err)
		}
		vector[i] = v
		n += m
	}
	return vector, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
// UpdatedAt is stored with microsecond precision.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	updated := checkpoint.UpdatedAt.UnixMicro()
	size := ord.String.Size(checkpoint.Job) +
		varint.Int.Size(checkpoint.Completed) +
		varint.Int64.Size(updated)
	buf := make([]byte, size)
	n := ord.String.Marshal(checkpoint.Job, buf)
	n += varint.Int.Marshal(checkpoint.Completed, buf[n:])
	varint.Int64.Marshal(updated, buf[n:])
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	job, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint job: %w", ErrSerializationFailed, err)
	}
	completed, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint progress: %w", ErrSerializationFailed, err)
	}
	n += m
	updated, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: checkpoint timestamp: %w", ErrSerializationFailed, err)
	}
	return &core.Checkpoint{
		Job:       job,
		Completed: completed,
		UpdatedAt: time.UnixMicro(updated).UTC(),
	}, nil
}
