package admin

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces record identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceIDs issues monotonic ids scoped to a single store.
type SequenceIDs struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceIDs builds a counter based generator, e.g. "widget-1", "widget-2".
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	n := s.next.Add(1)
	if s.prefix == "" {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s-%d", s.prefix, n)
}
