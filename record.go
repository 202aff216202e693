package logdex

import "encoding/json"

// Record is a single stored document: its key and its raw JSON body. The
// engine never interprets Body beyond what rebuild needs to extract the
// key; callers are free to unmarshal it into whatever shape they expect.
type Record struct {
	Key  string          `json:"key"`
	Body json.RawMessage `json:"body"`
}
