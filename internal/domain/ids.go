package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes. Every identifier is "<prefix>-<32 hex chars>".
const (
	PrefixUser     = "user"
	PrefixTrip     = "trip"
	PrefixCity     = "city"
	PrefixDay      = "day"
	PrefixActivity = "act"
	PrefixShare    = "share"
)

// NewID returns a fresh identifier for the given prefix, backed by a random
// UUIDv4 rendered without dashes.
func NewID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
