package logdex

import "github.com/andreyvit/logdex/internal/avltree"

// At returns the i-th (0-indexed) entry in ascending key order. It exists
// mainly for tests and tooling that need to assert on tree shape directly
// rather than through Page.
func (e *Engine) At(i int) (avltree.Entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index.At(i)
}
