// Package roller provides dice.Roller implementations beyond the toolkit's
// crypto-backed default: a seedable source for reproducible simulations and a
// scripted source for deterministic tests.
package roller

import (
	"math/rand/v2"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/guildworks/combat-api/internal/errors"
)

// Seeded implements dice.Roller over a seeded PRNG. Safe for concurrent use.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded creates a roller whose sequence is fully determined by seed
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// Roll returns a uniform value in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size < 1 {
		return 0, errors.InvalidArgumentf("die size must be positive, got %d", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(size) + 1, nil
}

// RollN returns count uniform values in [1, size]
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count < 1 {
		return nil, errors.InvalidArgumentf("die count must be positive, got %d", count)
	}
	results := make([]int, count)
	for i := range results {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Scripted implements dice.Roller by replaying a fixed sequence of values.
// Once the sequence is exhausted, further rolls fail.
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScripted creates a roller that returns the given values in order
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Roll returns the next scripted value. A value outside [1, size] is a bad
// fixture and fails loudly rather than being silently adjusted.
func (s *Scripted) Roll(size int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		return 0, errors.Internalf("scripted roller exhausted after %d rolls", len(s.values))
	}
	v := s.values[s.next]
	s.next++
	if v < 1 || v > size {
		return 0, errors.Internalf("scripted value %d out of range for d%d", v, size)
	}
	return v, nil
}

// RollN returns the next count scripted values
func (s *Scripted) RollN(count, size int) ([]int, error) {
	results := make([]int, count)
	for i := range results {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Remaining reports how many scripted values are left
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}

// Compile-time checks that both sources satisfy the toolkit interface
var (
	_ dice.Roller = (*Seeded)(nil)
	_ dice.Roller = (*Scripted)(nil)
)
