// Package id generates sortable identifiers for append-only records.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	PrefixViolation = "vio"
	PrefixAudit     = "aud"
)

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// NewULID returns a ULID for t. IDs minted in the same millisecond stay
// strictly increasing within the process.
func NewULID(t time.Time) ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy)
}

// NewPrefixed returns "prefix_<ulid>", e.g. "vio_01HZY3...".
func NewPrefixed(prefix string, t time.Time) string {
	return prefix + "_" + NewULID(t).String()
}
