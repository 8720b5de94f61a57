package schema

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// NodeID identifies a node within one tree.
//
// IDs are chosen by the producer and must stay stable for the lifetime of the
// UI element they name. Zero is reserved: it is never a valid node and marks
// an optional id field as absent.
type NodeID uint64

// Valid reports whether id names a node.
func (id NodeID) Valid() bool {
	return id != 0
}

// String formats the id in decimal.
func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// TreeIDGenerator produces globally unique tree identifiers.
// Implemented by UUIDGenerator (production) and FixedTreeIDs (tests).
type TreeIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUID tree ids.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new hyphenated UUIDv4.
//
// Panics if the system random source fails.
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// FixedTreeIDs returns predetermined tree ids in order, for deterministic tests.
type FixedTreeIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedTreeIDs creates a generator that returns ids in order.
func NewFixedTreeIDs(ids ...string) *FixedTreeIDs {
	return &FixedTreeIDs{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics when all ids have been consumed.
func (g *FixedTreeIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedTreeIDs: all %d ids exhausted", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// NewTree returns top-level tree metadata with a fresh id from gen.
func NewTree(gen TreeIDGenerator) Tree {
	return Tree{ID: gen.Generate()}
}
