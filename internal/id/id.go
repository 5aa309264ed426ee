package id

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a random RFC 4122 version 4 identifier.
func New() string {
	return uuid.NewString()
}

// Version renders a revision counter as a weak entity tag, the value
// stored in meta.version.
func Version(revision uint64) string {
	return fmt.Sprintf("W/%q", fmt.Sprintf("%d", revision))
}
