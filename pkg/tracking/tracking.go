// Package tracking issues human-scannable tracking numbers for citizen
// records. Numbers look like BRT52731904: a register prefix followed by
// the last eight digits of the creation instant in epoch milliseconds, so
// they sort by creation time within a prefix.
package tracking

import (
	"fmt"
	"sync"
	"time"
)

// Register prefixes.
const (
	PrefixComplaint   = "CMP"
	PrefixBirth       = "BRT"
	PrefixDeath       = "DTH"
	PrefixMarriage    = "MRG"
	PrefixLeaving     = "LVC"
	PrefixWater       = "WTR"
	PrefixProperty    = "PRP"
	PrefixExport      = "EXP"
)

const digitModulus = 100_000_000

// Generator hands out tracking numbers. Two calls for the same prefix in
// the same millisecond would collide on the raw time-derived digits, so
// the generator keeps the last issued value per prefix and bumps forward
// when the clock has not moved. Uniqueness therefore holds within a
// process; across restarts the non-guarantees of the original scheme
// remain.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last map[string]int64
}

// NewGenerator returns a clock-backed generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now, last: make(map[string]int64)}
}

// NewGeneratorWithClock allows tests to control the clock.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now, last: make(map[string]int64)}
}

// Next returns the next tracking number for the register prefix.
func (g *Generator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := g.now().UnixMilli() % digitModulus
	if prev, ok := g.last[prefix]; ok && candidate <= prev {
		candidate = (prev + 1) % digitModulus
	}
	g.last[prefix] = candidate

	return fmt.Sprintf("%s%08d", prefix, candidate)
}
