package tree

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator supplies identifiers for nodes added without an explicit ID.
type IDGenerator interface {
	NextID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NextID() string { return f() }

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID() string { return uuid.NewString() }

// Sequence issues prefix1, prefix2, ... Each tree built with New gets its
// own Sequence unless another generator is supplied.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NextID() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}
