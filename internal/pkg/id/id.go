package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable by
// creation time and collision-safe, unlike the timestamp+random concatenation
// they replaced here.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
