package logdex

import (
	"errors"

	"github.com/andreyvit/logdex/internal/wal"
)

// readFrame consults the LRU cache (if configured) before falling back
// to a real log read. It is the only path Get and Page use to turn an
// anchor offset into bytes, so a cache miss is always resolved by
// internal/wal, never bypassed.
func (e *Engine) readFrame(offset int64) ([]byte, error) {
	if e.cache != nil {
		if v, ok := e.cache.Get(offset); ok {
			return v.([]byte), nil
		}
	}

	payload, err := e.log.ReadFrame(offset)
	if err != nil {
		if errors.Is(err, wal.ErrCorruptFrame) {
			return nil, newCorruptFrameError(offset, err)
		}
		return nil, newIOError(err, "reading frame at offset %d", offset)
	}

	if e.cache != nil {
		e.cache.Add(offset, payload)
	}
	return payload, nil
}

// invalidate drops offset from the cache. Called whenever a mutation
// makes an offset unreachable from the index.
func (e *Engine) invalidate(offset int64) {
	if e.cache != nil {
		e.cache.Remove(offset)
	}
}
