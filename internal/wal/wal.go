// Package wal implements the append-only, framed log file that backs
// logdex's storage engine.
//
// File format: a flat sequence of frames, each
//
//	[4-byte big-endian length L][L bytes of payload]
//
// with no header, no per-record checksum, and no segment rotation — the
// engine owns exactly one log file for its lifetime. A frame's anchor
// offset is the offset of its length prefix; readers trust the stored
// length and never scan for delimiters.
package wal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// LengthPrefixSize is the width, in bytes, of a frame's length prefix.
const LengthPrefixSize = 4

var (
	// ErrCorruptFrame is returned when a frame's length prefix decodes to
	// zero, or the payload is truncated before the declared length.
	ErrCorruptFrame = errors.New("wal: corrupt frame")

	// ErrOutOfRange is returned by ReadFrame when the anchor offset falls
	// outside the current file.
	ErrOutOfRange = errors.New("wal: anchor offset out of range")
)

var payloadPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)
		return &b
	},
}

// Options configures a Log.
type Options struct {
	// FS is the filesystem the log is opened on. Production callers pass
	// afero.NewOsFs(); tests pass afero.NewMemMapFs() for a hermetic,
	// disk-free run.
	FS afero.Fs

	// Path is the log file's path within FS.
	Path string

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Log is the append-only data file. All appends are serialized through a
// single mutex; reads open their own file handle so they never block a
// writer, matching the "opened per read, closed at the end" discipline
// the engine requires.
type Log struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file afero.File
	size int64
}

// Open opens the log at o.Path, creating it if it does not already exist.
func Open(o Options) (*Log, error) {
	if o.FS == nil {
		panic("wal: Options.FS is nil")
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	f, err := o.FS.OpenFile(o.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wal: opening %s: %w", o.Path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("wal: statting %s: %w", o.Path, err)
	}

	return &Log{
		fs:     o.FS,
		path:   o.Path,
		logger: o.Logger,
		file:   f,
		size:   stat.Size(),
	}, nil
}

// Close closes the writer's file handle. Outstanding ReadFrame calls open
// and close their own handles and are unaffected.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// TODO: deleted keys leave their frames in place forever; nothing here
// reclaims them. A compaction pass (scan, keep only frames the index
// still references, rewrite to a new file, swap in) would need to live
// here since it is the only owner of the file handle and offset space.

// Size returns the current end-of-file offset, the anchor at which the
// next Append will land.
func (l *Log) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Append writes payload as a single frame at end-of-file and returns its
// anchor offset. The length prefix is computed over exactly the bytes in
// payload, including any trailing newline the caller embedded. Append
// flushes to stable storage before returning: the engine treats a
// completed Append as durable.
func (l *Log) Append(payload []byte) (anchor int64, err error) {
	if len(payload) == 0 {
		return 0, fmt.Errorf("wal: refusing to append an empty frame")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	anchor = l.size

	var hdr [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))

	if _, err := l.file.WriteAt(hdr[:], anchor); err != nil {
		return 0, fmt.Errorf("wal: writing frame header at %d: %w", anchor, err)
	}
	if _, err := l.file.WriteAt(payload, anchor+LengthPrefixSize); err != nil {
		return 0, fmt.Errorf("wal: writing frame payload at %d: %w", anchor, err)
	}
	if s, ok := l.file.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return 0, fmt.Errorf("wal: fsync: %w", err)
		}
	}

	l.size = anchor + LengthPrefixSize + int64(len(payload))
	return anchor, nil
}

// ReadFrame reads the 4-byte length at anchor, then the following L
// payload bytes, using a freshly opened, freshly closed file handle. It
// fails with ErrOutOfRange if anchor is beyond the log, and
// ErrCorruptFrame if the length decodes to zero or the payload is
// truncated before EOF.
func (l *Log) ReadFrame(anchor int64) ([]byte, error) {
	if anchor < 0 || anchor >= l.Size() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, anchor)
	}

	f, err := l.fs.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("wal: opening %s for read: %w", l.path, err)
	}
	defer f.Close()

	var hdr [LengthPrefixSize]byte
	if _, err := readFullAt(f, hdr[:], anchor); err != nil {
		return nil, fmt.Errorf("%w: reading length at %d: %v", ErrCorruptFrame, anchor, err)
	}
	length := binary.BigEndian.Uint32(hdr[:])
	if length == 0 {
		return nil, fmt.Errorf("%w: zero length at %d", ErrCorruptFrame, anchor)
	}

	bufp := payloadPool.Get().(*[]byte)
	buf := grow(*bufp, int(length))
	if _, err := readFullAt(f, buf, anchor+LengthPrefixSize); err != nil {
		payloadPool.Put(bufp)
		return nil, fmt.Errorf("%w: reading %d payload bytes at %d: %v", ErrCorruptFrame, length, anchor+LengthPrefixSize, err)
	}
	*bufp = buf

	out := make([]byte, length)
	copy(out, buf)
	payloadPool.Put(bufp)
	return out, nil
}

// ScanFunc is invoked once per complete frame found during Scan, in
// ascending anchor order.
type ScanFunc func(anchor int64, payload []byte) error

// Scan walks the log from the beginning, invoking fn for each complete
// frame. A partial tail frame — a length prefix with no complete payload
// following it, or a zero length — is tolerated: Scan stops at the first
// such frame and returns nil, having already reported every valid frame
// before it. Only a genuine I/O error (not a truncation) is returned.
func (l *Log) Scan(fn ScanFunc) error {
	f, err := l.fs.Open(l.path)
	if err != nil {
		return fmt.Errorf("wal: opening %s for scan: %w", l.path, err)
	}
	defer f.Close()

	size := l.Size()
	var off int64
	for off < size {
		var hdr [LengthPrefixSize]byte
		n, err := readAt(f, hdr[:], off)
		if n < LengthPrefixSize {
			if err != nil && err != io.EOF {
				return fmt.Errorf("wal: scan: reading length at %d: %w", off, err)
			}
			l.logger.Warn("wal: truncated length prefix, stopping scan", "offset", off)
			return nil
		}

		length := binary.BigEndian.Uint32(hdr[:])
		if length == 0 {
			l.logger.Warn("wal: zero-length frame, stopping scan", "offset", off)
			return nil
		}

		payload := make([]byte, length)
		n, err = readAt(f, payload, off+LengthPrefixSize)
		if n < int(length) {
			if err != nil && err != io.EOF {
				return fmt.Errorf("wal: scan: reading payload at %d: %w", off, err)
			}
			l.logger.Warn("wal: truncated payload, stopping scan", "offset", off, "want", length, "got", n)
			return nil
		}

		if err := fn(off, payload); err != nil {
			return err
		}
		off += LengthPrefixSize + int64(length)
	}
	return nil
}

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// readAt performs a single, possibly-short read at off, returning
// whatever io.ReaderAt returned.
func readAt(f afero.File, buf []byte, off int64) (int, error) {
	return f.ReadAt(buf, off)
}

// readFullAt reads exactly len(buf) bytes at off, treating a short read
// as io.ErrUnexpectedEOF.
func readFullAt(f afero.File, buf []byte, off int64) (int, error) {
	n, err := f.ReadAt(buf, off)
	if n == len(buf) {
		return n, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}
