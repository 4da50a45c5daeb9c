package intern

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIdempotent(t *testing.T) {
	tab := New()

	a := tab.Intern("pkg.foo")
	b := tab.Intern("pkg.foo")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, tab.Len())

	c := tab.Intern("pkg.bar")
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, tab.Len())
}

func TestLookupMiss(t *testing.T) {
	tab := New()
	_, ok := tab.Lookup("nope")
	assert.False(t, ok)
}

func TestStringRoundTrip(t *testing.T) {
	tab := New()
	sym := tab.Intern("a.b.c")
	assert.Equal(t, "a.b.c", tab.String(sym))
}

func TestStringPanicsOnForeignSymbol(t *testing.T) {
	tab := New()
	require.Panics(t, func() {
		tab.String(Symbol(99))
	})
}

func TestConcurrentIntern(t *testing.T) {
	tab := New()
	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		name := names[i%len(names)]
		go func() {
			defer wg.Done()
			tab.Intern(name)
		}()
	}
	wg.Wait()
	assert.Equal(t, len(names), tab.Len())
}
