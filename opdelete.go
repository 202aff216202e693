package logdex

import "time"

// Delete removes key from the index without touching the log; the frame
// bytes remain but become unreachable. Deleting an absent key returns
// NotFound.
func (e *Engine) Delete(key string) (float64, error) {
	start := time.Now()
	err := e.delete(key)
	d := time.Since(start)
	e.observer.OnDelete(d, err)
	return elapsedMS(start), err
}

func (e *Engine) delete(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	offset, ok := e.index.Lookup(key)
	if !ok {
		return newNotFoundError(key)
	}

	e.index.Delete(key)
	e.invalidate(offset)

	return e.persistSnapshotLocked()
}
