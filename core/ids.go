package core

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("kd") returns "kd_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	if strings.TrimSpace(prefix) == "" {
		panic("prefix cannot be empty")
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return fmt.Sprintf("%s_%s", strings.ToLower(strings.TrimSpace(prefix)), id.String())
}

// IsValidULID checks if the given string is a prefixed ULID as produced by NewID.
func IsValidULID(id string) bool {
	prefix, ulidPart, found := strings.Cut(id, "_")
	if !found || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != ulid.EncodedSize {
		return false
	}

	_, err := ulid.ParseStrict(ulidPart)
	return err == nil
}
