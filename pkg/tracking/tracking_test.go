package tracking

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackingPattern = regexp.MustCompile(`^[A-Z]{3}\d{8}$`)

func TestGeneratorFormat(t *testing.T) {
	gen := NewGenerator()
	for _, prefix := range []string{PrefixComplaint, PrefixBirth, PrefixDeath, PrefixMarriage, PrefixLeaving} {
		number := gen.Next(prefix)
		assert.Regexp(t, trackingPattern, number)
		assert.Equal(t, prefix, number[:3])
	}
}

func TestGeneratorSameMillisecondDoesNotCollide(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_123)
	gen := NewGeneratorWithClock(func() time.Time { return frozen })

	first := gen.Next(PrefixBirth)
	second := gen.Next(PrefixBirth)
	third := gen.Next(PrefixBirth)

	require.NotEqual(t, first, second)
	require.NotEqual(t, second, third)
	assert.Equal(t, "BRT00000123", first)
	assert.Equal(t, "BRT00000124", second)
}

func TestGeneratorPrefixesIndependent(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_500)
	gen := NewGeneratorWithClock(func() time.Time { return frozen })

	birth := gen.Next(PrefixBirth)
	death := gen.Next(PrefixDeath)

	assert.Equal(t, birth[3:], death[3:])
}

func TestGeneratorConcurrentUnique(t *testing.T) {
	gen := NewGenerator()
	const workers = 32

	seen := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- gen.Next(PrefixComplaint)
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[string]struct{}, workers)
	for number := range seen {
		assert.Regexp(t, trackingPattern, number)
		unique[number] = struct{}{}
	}
	assert.Len(t, unique, workers)
}
