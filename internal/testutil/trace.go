package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceGenerator returns the same trace id every time.
//
// This enables golden comparison of JSON command output, which carries the
// trace id.
//
// Thread-safety: FixedTraceGenerator is stateless and safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a generator returning id.
// If id is empty, Generate() returns "test-trace-default".
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed trace id.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}

// SequentialTraceGenerator returns "trace-1", "trace-2", ... in order, so
// that several commands in one test get distinct but predictable ids.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialTraceGenerator struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialTraceGenerator creates a generator whose first id is "trace-1".
func NewSequentialTraceGenerator() *SequentialTraceGenerator {
	return &SequentialTraceGenerator{}
}

// Generate returns the next id.
func (g *SequentialTraceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("trace-%d", g.seq)
}

// Reset restarts the sequence. After Reset, the next id is "trace-1".
func (g *SequentialTraceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
