package ports

import (
	"math/rand/v2"
)

// RNGPort dispenses deterministic random streams derived from a single root
// seed. Stream (label, index) always yields the same generator for the same
// root seed, which is what makes parallel batch generation reproducible:
// record i of a batch reads stream ("scenario", i) no matter which worker
// runs it.
type RNGPort interface {
	// Stream returns the generator dedicated to (label, index)
	Stream(label string, index uint64) *rand.Rand

	// Root returns the root seed all streams derive from
	Root() uint64
}
