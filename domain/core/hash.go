package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint identifies one fully-specified study configuration
type Fingerprint Hash

// NewFingerprint creates a fingerprint from raw bytes
func NewFingerprint(data []byte) Fingerprint { return Fingerprint(NewHash(data)) }

// String returns the string representation
func (h Fingerprint) String() string { return Hash(h).String() }

// ComputeFingerprint derives a deterministic fingerprint from a seed and a
// set of named configuration fields. Keys are sorted so the result does not
// depend on map iteration order.
func ComputeFingerprint(seed uint64, fields map[string]interface{}) Fingerprint {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	data.WriteString(fmt.Sprintf("seed=%d", seed))
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", fields[key]))
	}

	return NewFingerprint([]byte(data.String()))
}
