package logdex

import "regexp"

// idPattern extracts the key from a record's JSON body by lightweight
// textual scan rather than a full JSON parse, per the rebuild contract:
// the payload is otherwise opaque to the engine.
var idPattern = regexp.MustCompile(`"id":"([^"]*)"`)

// rebuildFromLog reconstructs the index by scanning the log start to
// finish. Each frame is indexed at its anchor offset — the same offset
// Append reports — so a get performed after a rebuild resolves exactly
// like one performed after a normal insert. Frames whose payload has no
// matching id are skipped with a warning rather than aborting the scan.
func (e *Engine) rebuildFromLog() error {
	return e.log.Scan(func(anchor int64, payload []byte) error {
		m := idPattern.FindSubmatch(payload)
		if m == nil {
			e.logger.Warn("logdex: frame has no recoverable id, skipping", "offset", anchor)
			return nil
		}
		e.index.Insert(string(m[1]), anchor)
		return nil
	})
}
