package logdex

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/afero"

	"github.com/andreyvit/logdex/internal/avltree"
	"github.com/andreyvit/logdex/internal/wal"
)

// DefaultLogPath and DefaultSnapshotPath are the filenames the reference
// deployment uses; they are configuration, not part of the wire protocol.
const (
	DefaultLogPath      = "users.jsonl"
	DefaultSnapshotPath = "users.idx"
)

// PageSize is the fixed number of records Page returns per page.
const PageSize = 20

// Options configures Open.
type Options struct {
	// FS is the filesystem the log and snapshot are opened on. Defaults
	// to afero.NewOsFs(). Tests should pass afero.NewMemMapFs().
	FS afero.Fs

	// LogPath and SnapshotPath default to DefaultLogPath and
	// DefaultSnapshotPath.
	LogPath      string
	SnapshotPath string

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Verbose is stored on the Engine, but no operation reads it: Get,
	// Page, Insert and Delete do not log their successes or failures
	// whether or not it is set.
	Verbose bool

	// SeedCount, if positive, seeds that many synthetic records at first
	// boot (log file absent). Ignored on a warm or rebuilt boot.
	SeedCount int

	// CacheSize, if positive, bounds an in-memory LRU of decoded frame
	// bytes keyed by anchor offset. Zero disables the cache.
	CacheSize int

	// Observer, if set, is notified after every operation. Defaults to a
	// no-op.
	Observer Observer
}

// Engine composes the log store and the order-statistic index and
// implements the four user operations. All process-wide mutable state
// for a store lives here; there is no package-level state.
type Engine struct {
	mu sync.RWMutex

	fs           afero.Fs
	log          *wal.Log
	index        avltree.Tree
	snapshotPath string

	logger   *slog.Logger
	verbose  bool
	cache    *lru.Cache
	observer Observer
}

// Open opens (or creates) the store described by o. See the package doc
// for the three startup paths this chooses between.
func Open(o Options) (*Engine, error) {
	fs := o.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logPath := o.LogPath
	if logPath == "" {
		logPath = DefaultLogPath
	}
	snapshotPath := o.SnapshotPath
	if snapshotPath == "" {
		snapshotPath = DefaultSnapshotPath
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := o.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	logExisted, err := afero.Exists(fs, logPath)
	if err != nil {
		return nil, newIOError(err, "checking log file %s", logPath)
	}

	l, err := wal.Open(wal.Options{FS: fs, Path: logPath, Logger: logger})
	if err != nil {
		return nil, newIOError(err, "opening log %s", logPath)
	}

	var cache *lru.Cache
	if o.CacheSize > 0 {
		cache, err = lru.New(o.CacheSize)
		if err != nil {
			l.Close()
			return nil, newIOError(err, "constructing read cache")
		}
	}

	e := &Engine{
		fs:           fs,
		log:          l,
		snapshotPath: snapshotPath,
		logger:       logger,
		verbose:      o.Verbose,
		cache:        cache,
		observer:     observer,
	}

	if !logExisted {
		e.logger.Info("logdex: no log found, starting fresh", "path", logPath)
		if o.SeedCount > 0 {
			if err := e.seed(o.SeedCount); err != nil {
				l.Close()
				return nil, err
			}
		}
		if err := e.persistSnapshotLocked(); err != nil {
			l.Close()
			return nil, err
		}
		return e, nil
	}

	snapshotExisted, err := afero.Exists(fs, snapshotPath)
	if err != nil {
		l.Close()
		return nil, newIOError(err, "checking snapshot file %s", snapshotPath)
	}

	if snapshotExisted {
		if err := e.loadSnapshot(); err == nil {
			e.logger.Info("logdex: rehydrated index from snapshot", "path", snapshotPath, "keys", e.index.Len())
			return e, nil
		} else {
			e.logger.Warn("logdex: snapshot unreadable, rebuilding from log", "path", snapshotPath, "err", err)
		}
	}

	if err := e.rebuildFromLog(); err != nil {
		l.Close()
		return nil, err
	}
	if err := e.persistSnapshotLocked(); err != nil {
		l.Close()
		return nil, err
	}
	e.logger.Info("logdex: rebuilt index from log", "keys", e.index.Len())
	return e, nil
}

// Close releases the engine's open file handle. It does not delete or
// truncate anything.
func (e *Engine) Close() error {
	return e.log.Close()
}

// Len returns the number of live keys in the index.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index.Len()
}
