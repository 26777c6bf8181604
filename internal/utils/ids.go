package utils

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewIDHookFunc defines the signature for the NewID test hook.
// It returns an ID and a boolean indicating whether to override the default generation.
type NewIDHookFunc func() (id string, override bool)

// NewIDHook is a package-level variable that tests can set to override NewID behavior.
var NewIDHook NewIDHookFunc

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new ULID string. IDs sort by creation time.
func NewID() string {
	if NewIDHook != nil {
		if id, override := NewIDHook(); override {
			return id
		}
	}

	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsValidID reports whether s parses as a ULID.
func IsValidID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
