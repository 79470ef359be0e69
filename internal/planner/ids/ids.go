package ids

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Identifier generators
// ============================================================

type Generator interface {
	NewID(prefix string) string
}

// UUID issues "<prefix>-<uuid>" identifiers.
type UUID struct{}

func (UUID) NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// Sequence issues "<prefix>-<n>" with a counter per prefix, starting at 1.
type Sequence struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewSequence() *Sequence {
	return &Sequence{counters: make(map[string]int)}
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, s.counters[prefix])
}

// ============================================================
// Clock
// ============================================================

type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
