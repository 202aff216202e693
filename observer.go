package logdex

import "time"

// Observer receives a callback after every engine operation, mirroring
// the MetricsObserver pattern the wider vecgo/gazette ecosystem uses to
// keep instrumentation out of a storage engine's core: the engine never
// imports a metrics library itself, it just calls back into whatever a
// caller wired up. internal/metrics supplies a Prometheus-backed one.
type Observer interface {
	OnGet(d time.Duration, err error)
	OnPage(d time.Duration, err error)
	OnInsert(d time.Duration, err error)
	OnDelete(d time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) OnGet(time.Duration, error)    {}
func (noopObserver) OnPage(time.Duration, error)   {}
func (noopObserver) OnInsert(time.Duration, error) {}
func (noopObserver) OnDelete(time.Duration, error) {}
