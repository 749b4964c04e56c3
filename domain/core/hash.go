package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
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

// Fingerprint identifies the exact numeric input of a run
type Fingerprint Hash

func (f Fingerprint) String() string { return Hash(f).String() }

// ComputeSampleFingerprint hashes grouped samples in group-name order.
// Values are encoded bit-exact so identical inputs always collide.
func ComputeSampleFingerprint(groups map[string][]float64) Fingerprint {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var data strings.Builder
	for _, name := range names {
		data.WriteString(name)
		data.WriteByte('=')
		for _, v := range groups[name] {
			data.WriteString(strconv.FormatFloat(v, 'x', -1, 64))
			data.WriteByte(',')
		}
		data.WriteByte(';')
	}

	return Fingerprint(NewHash([]byte(data.String())))
}
