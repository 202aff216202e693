package logdex

import "time"

// Get performs a point lookup by key. It returns NotFound if the key is
// absent from the index.
func (e *Engine) Get(key string) (Record, float64, error) {
	start := time.Now()
	rec, err := e.get(key)
	d := time.Since(start)
	e.observer.OnGet(d, err)
	return rec, elapsedMS(start), err
}

func (e *Engine) get(key string) (Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	offset, ok := e.index.Lookup(key)
	if !ok {
		return Record{}, newNotFoundError(key)
	}
	payload, err := e.readFrame(offset)
	if err != nil {
		return Record{}, err
	}
	return Record{Key: key, Body: trimFrame(payload)}, nil
}
