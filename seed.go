package logdex

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// seedNames is a small deterministic pool of display names so seeded
// records are readable without pulling in a fake-data dependency.
var seedNames = []string{
	"Ada Lovelace", "Alan Turing", "Grace Hopper", "Edsger Dijkstra",
	"Barbara Liskov", "Donald Knuth", "Margaret Hamilton", "John McCarthy",
	"Radia Perlman", "Ken Thompson",
}

// seed appends n synthetic records to the log and indexes each as it is
// written. It is only ever called from Open, before the engine is
// reachable from any other goroutine, so it does not take e.mu.
func (e *Engine) seed(n int) error {
	for i := 0; i < n; i++ {
		key := uuid.NewString()
		name := seedNames[i%len(seedNames)]
		email := fmt.Sprintf("seed%d@example.com", i)

		body, err := json.Marshal(map[string]string{
			"id":    key,
			"name":  name,
			"email": email,
		})
		if err != nil {
			return newIOError(err, "encoding seed record %d", i)
		}
		framed := append(body, '\n')

		anchor, err := e.log.Append(framed)
		if err != nil {
			return newIOError(err, "appending seed record %d", i)
		}
		e.index.Insert(key, anchor)
	}
	e.logger.Info("logdex: seeded synthetic records", "count", n)
	return nil
}
