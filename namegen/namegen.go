// Package namegen generates the human-readable names and unique
// identifiers handed out by the mock platform.
package namegen

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// The palettes the real platform samples from when naming a resource.
var (
	adjectives = []string{
		"amber", "aqua", "cobalt", "crimson", "golden", "ivory",
		"jade", "obsidian", "onyx", "pearl", "scarlet", "silver",
	}
	nouns = []string{
		"argon", "carbon", "helium", "iron", "krypton", "lithium",
		"neon", "osmium", "radon", "silicon", "xenon", "zinc",
	}
)

// Generator produces resource names of the form adjective-noun-dddd.
// It guarantees nothing about uniqueness; the store checks for
// collisions and asks again.
type Generator struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Generator backed by src. Tests inject a seeded source to
// get deterministic names.
func New(src rand.Source) *Generator {
	return &Generator{r: rand.New(src)}
}

// NewDefault returns a Generator seeded from the clock.
func NewDefault() *Generator {
	return New(rand.NewSource(time.Now().UnixNano()))
}

// Name samples one adjective, one noun, and four independent digits.
func (g *Generator) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	digits := 0
	for i := 0; i < 4; i++ {
		digits = digits*10 + g.r.Intn(10)
	}
	return fmt.Sprintf("%s-%s-%04d",
		adjectives[g.r.Intn(len(adjectives))],
		nouns[g.r.Intn(len(nouns))],
		digits)
}

// UUIDGenerator hands out canonical lowercase 8-4-4-4-12 identifiers.
// Collision probability is treated as negligible; there is no retry.
type UUIDGenerator struct {
	rd io.Reader
}

// UUIDGeneratorOp is an option for a UUIDGenerator.
type UUIDGeneratorOp func(*UUIDGenerator)

// WithReader sources the identifier's random bytes from rd instead of
// crypto/rand.
func WithReader(rd io.Reader) UUIDGeneratorOp {
	return func(g *UUIDGenerator) {
		g.rd = rd
	}
}

// NewUUIDGenerator returns a new UUIDGenerator.
func NewUUIDGenerator(opts ...UUIDGeneratorOp) *UUIDGenerator {
	gen := &UUIDGenerator{}
	for _, f := range opts {
		f(gen)
	}
	return gen
}

// ID returns the next identifier.
func (g *UUIDGenerator) ID() string {
	if g.rd != nil {
		id, err := uuid.NewRandomFromReader(g.rd)
		if err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}
