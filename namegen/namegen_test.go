package namegen

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nameFormat = regexp.MustCompile(`^[a-z]+-[a-z]+-\d{4}$`)

func TestGenerator_Name_Format(t *testing.T) {
	g := New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		name := g.Name()
		require.Regexp(t, nameFormat, name)
	}
}

func TestGenerator_Name_Deterministic(t *testing.T) {
	a := New(rand.NewSource(42))
	b := New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Name(), b.Name())
	}
}

func TestGenerator_Name_Independent(t *testing.T) {
	g := New(rand.NewSource(7))

	// Two consecutive names colliding is possible in principle; over a
	// hundred draws it is not.
	seen := map[string]int{}
	for i := 0; i < 100; i++ {
		seen[g.Name()]++
	}
	if len(seen) < 90 {
		t.Fatalf("expected nearly all of 100 generated names to differ, got %d distinct", len(seen))
	}
}

var uuidFormat = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestUUIDGenerator_ID_Format(t *testing.T) {
	g := NewUUIDGenerator()
	for i := 0; i < 100; i++ {
		id := g.ID()
		require.Len(t, id, 36)
		require.Regexp(t, uuidFormat, id)
	}
}

func TestUUIDGenerator_ID_InjectedReader(t *testing.T) {
	a := NewUUIDGenerator(WithReader(rand.New(rand.NewSource(9))))
	b := NewUUIDGenerator(WithReader(rand.New(rand.NewSource(9))))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.ID(), b.ID())
	}
}

func TestUUIDGenerator_ID_Unique(t *testing.T) {
	g := NewUUIDGenerator()
	assert.NotEqual(t, g.ID(), g.ID())
}
