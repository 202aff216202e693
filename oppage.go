package logdex

import "time"

// Page returns the n-th page (1-based) of records in ascending key order,
// PageSize entries at most. A non-positive n is coerced to 1; a page past
// the end returns an empty, non-error result.
func (e *Engine) Page(n int) ([]Record, float64, error) {
	start := time.Now()
	recs, err := e.page(n)
	d := time.Since(start)
	e.observer.OnPage(d, err)
	return recs, elapsedMS(start), err
}

func (e *Engine) page(n int) ([]Record, error) {
	if n < 1 {
		n = 1
	}
	offset := (n - 1) * PageSize

	e.mu.RLock()
	entries := e.index.Range(offset, PageSize)
	e.mu.RUnlock()

	recs := make([]Record, 0, len(entries))
	for _, ent := range entries {
		e.mu.RLock()
		payload, err := e.readFrame(ent.Offset)
		e.mu.RUnlock()
		if err != nil {
			return nil, err
		}
		recs = append(recs, Record{Key: ent.Key, Body: trimFrame(payload)})
	}
	return recs, nil
}
