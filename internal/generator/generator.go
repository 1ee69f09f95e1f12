package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Generator is an interface that defines a method to generate a new value of type T.
// This can be used to generate unique identifiers, lazily iterate, etc.
type Generator[T any] interface {
	Next() (T, error)
}

// UUIDV4Generator is a generator that produces UUIDv4 strings.
// Run ids are drawn from it.
type UUIDV4Generator struct{}

func (g *UUIDV4Generator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ Generator[string] = &UUIDV4Generator{}

// IntRangeGenerator yields uniformly distributed integers in [Min, Max).
// It is safe for concurrent use.
type IntRangeGenerator struct {
	Min int
	Max int

	mu  sync.Mutex
	rng *rand.Rand
}

func NewIntRangeGenerator(min, max int) *IntRangeGenerator {
	return &IntRangeGenerator{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (g *IntRangeGenerator) Next() (int, error) {
	if g.Max <= g.Min {
		return 0, fmt.Errorf("empty range [%d, %d)", g.Min, g.Max)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g.Min + g.rng.IntN(g.Max-g.Min), nil
}

var _ Generator[int] = &IntRangeGenerator{}

// SequenceGenerator replays a fixed list of values and fails once it is exhausted.
type SequenceGenerator[T any] struct {
	Values []T

	mu   sync.Mutex
	next int
}

func (g *SequenceGenerator[T]) Next() (T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next >= len(g.Values) {
		var zero T
		return zero, fmt.Errorf("sequence exhausted after %d values", len(g.Values))
	}
	v := g.Values[g.next]
	g.next++
	return v, nil
}

var _ Generator[int] = &SequenceGenerator[int]{}
