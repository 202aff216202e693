package logdex

import (
	"errors"
	"fmt"
)

// Kind classifies the errors logdex surfaces to callers.
type Kind int

const (
	// KindNotFound is returned by Get and Delete against an absent key.
	KindNotFound Kind = iota
	// KindMalformedInput is returned when Insert is missing a required field.
	KindMalformedInput
	// KindIoError wraps any failure reading or writing the log or snapshot.
	KindIoError
	// KindCorruptFrame is returned when a frame's length prefix decodes to
	// zero, or a read runs past EOF before the declared length.
	KindCorruptFrame
	// KindCorruptSnapshot is returned when the snapshot file can't be
	// parsed, or (post-write) fails its integrity check.
	KindCorruptSnapshot
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMalformedInput:
		return "malformed_input"
	case KindIoError:
		return "io_error"
	case KindCorruptFrame:
		return "corrupt_frame"
	case KindCorruptSnapshot:
		return "corrupt_snapshot"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the concrete error type every logdex operation returns on
// failure. It carries whichever of Key/Offset is relevant so a caller
// (or a log line) can identify the record without re-parsing a message
// string.
type Error struct {
	Kind   Kind
	Key    string
	Offset int64
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var where string
	switch {
	case e.Key != "":
		where = fmt.Sprintf(" key=%q", e.Key)
	case e.Offset != 0:
		where = fmt.Sprintf(" offset=%d", e.Offset)
	}
	if e.Err != nil {
		return fmt.Sprintf("logdex: %s%s: %s: %v", e.Kind, where, e.Msg, e.Err)
	}
	return fmt.Sprintf("logdex: %s%s: %s", e.Kind, where, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newNotFoundError(key string) *Error {
	return &Error{Kind: KindNotFound, Key: key, Msg: "no record with this key"}
}

func newMalformedInputError(msg string) *Error {
	return &Error{Kind: KindMalformedInput, Msg: msg}
}

func newIOError(err error, format string, args ...any) *Error {
	return &Error{Kind: KindIoError, Msg: fmt.Sprintf(format, args...), Err: err}
}

func newCorruptFrameError(offset int64, err error) *Error {
	return &Error{Kind: KindCorruptFrame, Offset: offset, Msg: "frame failed to decode", Err: err}
}

func newCorruptSnapshotError(err error) *Error {
	return &Error{Kind: KindCorruptSnapshot, Msg: "snapshot failed to decode", Err: err}
}

// IsNotFound reports whether err is (or wraps) a KindNotFound Error.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNotFound
	}
	return false
}
