// Package usage accumulates token counts reported by a model provider.
package usage

import (
	"log/slog"
	"sync"
)

// TokenCount holds the tokens billed for one or more model calls.
type TokenCount struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (tc TokenCount) Total() int {
	return tc.InputTokens + tc.OutputTokens
}

// LogValue renders the count as a slog group.
func (tc TokenCount) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("input", tc.InputTokens),
		slog.Int("output", tc.OutputTokens),
	)
}

// Tracker sums token usage across model calls. The zero value is ready to
// use and it is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	total    TokenCount
	requests int
}

// Add records the usage of one call.
func (t *Tracker) Add(tc TokenCount) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total.InputTokens += tc.InputTokens
	t.total.OutputTokens += tc.OutputTokens
	t.requests++
}

// Total returns the usage summed over every recorded call.
func (t *Tracker) Total() TokenCount {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// Requests returns how many calls were recorded.
func (t *Tracker) Requests() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.requests
}
