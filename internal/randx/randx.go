package randx

import (
	"math/rand/v2"

	"episbc/ports"
)

// Factory derives independent deterministic random streams from a single
// root seed. Every (label, index) pair names its own PCG stream, so
// parallel workers can draw concurrently without sharing generator state
// and results stay identical for any worker count.
type Factory struct {
	root uint64
}

// New creates a stream factory for the given root seed
func New(root uint64) *Factory {
	return &Factory{root: root}
}

// Root returns the root seed all streams derive from
func (f *Factory) Root() uint64 {
	return f.root
}

// Stream returns the generator for (label, index). The label is hashed into
// the seed so distinct stages never collide even at the same index.
func (f *Factory) Stream(label string, index uint64) *rand.Rand {
	return rand.New(rand.NewPCG(f.root^hashLabel(label), index))
}

// hashLabel creates a simple hash for deterministic seeding
func hashLabel(s string) uint64 {
	var hash uint64 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint64(c) // djb2 algorithm
	}
	return hash
}

// Ensure Factory implements RNGPort
var _ ports.RNGPort = (*Factory)(nil)
