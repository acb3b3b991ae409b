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


package align

import (
	"fmt"

	"github.com/poiesic/sapphire/wordalign"
)

const (
	// DefaultLambda is the default word alignment threshold.
	DefaultLambda = 0.6

	// DefaultDelta is the default phrase alignment threshold.
	DefaultDelta = 0.6

	// DefaultAlpha is the default phrase length bias.
	DefaultAlpha = 0.01
)

// Config holds the alignment parameters bound into an Aligner.
type Config struct {
	// Lambda is the minimum similarity of a word alignment point.
	Lambda float64

	// Delta is the minimum score of a phrase pair.
	Delta float64

	// Alpha scales the length bias subtracted from phrase scores.
	// Larger values favour longer phrases less.
	Alpha float64

	// Strategy selects the word alignment algorithm.
	Strategy wordalign.Strategy

	// BranchLimit caps the lattice search branching factor. Zero disables it.
	BranchLimit int

	// TopN is the number of alignments returned per call.
	TopN int

	// ReturnScore makes rendered results include alignment scores.
	ReturnScore bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lambda:   DefaultLambda,
		Delta:    DefaultDelta,
		Alpha:    DefaultAlpha,
		Strategy: wordalign.GrowDiagFinal,
		TopN:     1,
	}
}

// Validate checks that all parameters are within range.
func (c *Config) Validate() error {
	if c.Lambda < 0 || c.Lambda > 1 {
		return fmt.Errorf("%w: align config: Lambda must be within [0, 1], got %g", ErrInvalidConfig, c.Lambda)
	}
	if c.Delta < 0 || c.Delta > 1 {
		return fmt.Errorf("%w: align config: Delta must be within [0, 1], got %g", ErrInvalidConfig, c.Delta)
	}
	if c.Alpha < 0 {
		return fmt.Errorf("%w: align config: Alpha cannot be negative, got %g", ErrInvalidConfig, c.Alpha)
	}
	switch c.Strategy {
	case wordalign.GrowDiagFinal, wordalign.Hungarian:
	default:
		return fmt.Errorf("%w: align config: unknown Strategy %s", ErrInvalidConfig, c.Strategy)
	}
	if c.BranchLimit < 0 {
		return fmt.Errorf("%w: align config: BranchLimit cannot be negative, got %d", ErrInvalidConfig, c.BranchLimit)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: align config: TopN must be at least 1, got %d", ErrInvalidConfig, c.TopN)
	}
	return nil
}
