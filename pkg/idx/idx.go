// Package idx mints ULID identifiers. A shared monotonic entropy source keeps
// ids minted within the same millisecond in creation order, so request ids
// sort the way requests were sent.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an ID for the current time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns an ID carrying timestamp t.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Time returns the timestamp encoded in id.
func (id ID) Time() (time.Time, error) {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

func (id ID) String() string { return string(id) }
