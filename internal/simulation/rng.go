package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"promptlab/domain/core"
)

// RNGAdapter implements the RNGPort interface with name-partitioned
// deterministic streams
type RNGAdapter struct{}

// NewRNGAdapter creates the deterministic stream factory
func NewRNGAdapter() *RNGAdapter {
	return &RNGAdapter{}
}

// SeededStream creates a deterministic random number generator for a
// named operation. The name folds into the seed so distinct operations
// never share a stream even under the same base seed.
func (r *RNGAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name == "" {
		return nil, core.NewValidationError("stream name", "must not be empty")
	}
	return rand.New(rand.NewSource(seed + int64(hashString(name)))), nil
}

// ValidateSeed ensures the seed produces expected deterministic results
func (r *RNGAdapter) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	stream, err := r.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		got := stream.Float64()
		if math.Abs(got-want) > 1e-12 {
			return core.NewValidationError("seed",
				fmt.Sprintf("draw %d diverged from the recorded stream", i))
		}
	}
	return nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
