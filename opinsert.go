package logdex

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// requiredInsertFields are the fields insert demands be present and
// non-empty, mirroring the {name, email} example the reference client
// sends.
var requiredInsertFields = []string{"name", "email"}

// Insert mints a new key, frames the supplied fields as a JSON object
// (with the minted key embedded under "id" so a later rebuild can recover
// it), appends the frame, and updates the index and snapshot.
func (e *Engine) Insert(fields map[string]string) (Record, float64, error) {
	start := time.Now()
	rec, err := e.insert(fields)
	d := time.Since(start)
	e.observer.OnInsert(d, err)
	return rec, elapsedMS(start), err
}

func (e *Engine) insert(fields map[string]string) (Record, error) {
	for _, f := range requiredInsertFields {
		if fields[f] == "" {
			return Record{}, newMalformedInputError(fmt.Sprintf("missing required field %q", f))
		}
	}

	key := uuid.NewString()

	body := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["id"] = key

	encoded, err := json.Marshal(body)
	if err != nil {
		return Record{}, newIOError(err, "encoding insert payload")
	}
	framed := append(encoded, '\n')

	e.mu.Lock()
	defer e.mu.Unlock()

	anchor, err := e.log.Append(framed)
	if err != nil {
		return Record{}, newIOError(err, "appending record %s", key)
	}

	e.index.Insert(key, anchor)
	if err := e.persistSnapshotLocked(); err != nil {
		return Record{}, err
	}

	return Record{Key: key, Body: encoded}, nil
}
