/*
Package logdex implements an embedded record store for opaque JSON
documents keyed by a caller-supplied primary key.

Records are appended to a single framed log file
(github.com/andreyvit/logdex/internal/wal); an in-memory order-statistic
AVL tree (github.com/andreyvit/logdex/internal/avltree) maps each key to
the log offset at which its record begins, and doubles as the positional
index pagination reads from. A JSON snapshot of that tree is rewritten
after every mutation so a warm restart can rehydrate without re-scanning
the log.

# Startup

Open inspects the log and snapshot files and picks one of three paths:

  - The log doesn't exist (whether or not a snapshot does): create an
    empty log, optionally seed it with N synthetic records, and write the
    initial snapshot over any existing one.
  - Both exist: bulk-load the index from the snapshot, trusting it to be
    consistent.
  - The log exists but the snapshot doesn't (or the snapshot fails to
    parse): rebuild the index by scanning the log from the start.

# Operations

Get, Page, Insert, and Delete are the only four operations. Each returns
its result alongside the wall-clock cost of the call in milliseconds.
Insert appends to the log, then updates the index, then rewrites the
snapshot, in that order; Delete updates the index and rewrites the
snapshot without touching the log — a reader that starts after a mutation
returns is guaranteed to see it; one that starts before never sees a
partial effect.

# What this package does not do

No transactions spanning multiple records, no secondary indexes, no
key-range scans (only positional pagination), and no compaction: deleting
a key removes its index entry but the log bytes stay put.
*/
package logdex
