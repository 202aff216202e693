package logdex

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/andreyvit/logdex/internal/avltree"
)

// snapshotEntry is the on-disk shape of one snapshot row: the key and
// its anchor offset in the log, nothing else.
type snapshotEntry struct {
	Key    string `json:"key"`
	Offset int64  `json:"offset"`
}

// persistSnapshotLocked writes the index's in-order enumeration to the
// snapshot file as a single replacement (write to a temp file, then
// rename over the real path, so a crash mid-write never leaves a
// half-written snapshot in place). The caller must already hold e.mu.
//
// After the rename, the file is re-read and hashed with xxhash and
// compared against a hash of the bytes taken before the write. This never
// changes the on-disk format (still a plain JSON array); the checksum is
// a pure in-memory assertion that the write actually landed.
func (e *Engine) persistSnapshotLocked() error {
	entries := make([]snapshotEntry, 0, e.index.Len())
	for ent := range e.index.InOrder() {
		entries = append(entries, snapshotEntry{Key: ent.Key, Offset: ent.Offset})
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return newIOError(err, "encoding snapshot")
	}
	wantSum := xxhash.Sum64(raw)

	tmpPath := e.snapshotPath + ".tmp"
	if err := afero.WriteFile(e.fs, tmpPath, raw, 0o644); err != nil {
		return newIOError(err, "writing snapshot to %s", tmpPath)
	}
	if err := e.fs.Rename(tmpPath, e.snapshotPath); err != nil {
		return newIOError(err, "renaming %s to %s", tmpPath, e.snapshotPath)
	}

	written, err := afero.ReadFile(e.fs, e.snapshotPath)
	if err != nil {
		return newIOError(err, "verifying snapshot %s", e.snapshotPath)
	}
	if gotSum := xxhash.Sum64(written); gotSum != wantSum {
		e.logger.Error("logdex: snapshot integrity check failed", "path", e.snapshotPath, "want", wantSum, "got", gotSum)
		return newCorruptSnapshotError(fmt.Errorf("checksum mismatch after write (want %x, got %x)", wantSum, gotSum))
	}
	return nil
}

// loadSnapshot bulk-loads the index from the snapshot file, trusting it
// to already be sorted and duplicate-free per the persisted invariant,
// but still checking that invariant rather than trusting it blindly: a
// snapshot that fails to parse, or that isn't sorted and unique, is
// reported as CorruptSnapshot so the caller falls back to a rebuild.
func (e *Engine) loadSnapshot() error {
	raw, err := afero.ReadFile(e.fs, e.snapshotPath)
	if err != nil {
		return newIOError(err, "reading snapshot %s", e.snapshotPath)
	}

	var entries []snapshotEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return newCorruptSnapshotError(err)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			return newCorruptSnapshotError(fmt.Errorf("entries not strictly ascending at index %d", i))
		}
	}

	avlEntries := make([]avltree.Entry, len(entries))
	for i, se := range entries {
		avlEntries[i] = avltree.Entry{Key: se.Key, Offset: se.Offset}
	}
	e.index.BulkLoad(avlEntries)
	return nil
}
