package locator

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

var (
	// ErrNotFound means the pid matched no live process.
	ErrNotFound = errors.New("process not found")
	// ErrToolFailure means the platform diagnostic tool exited non-zero.
	ErrToolFailure = errors.New("diagnostic tool failed")
	// ErrMalformed means the tool ran but its output held no usable data.
	ErrMalformed = errors.New("malformed tool output")
	// ErrUnsupported means no lookup strategy exists for this platform.
	ErrUnsupported = errors.New("platform not supported")
)

// LookupError reports why a whole lookup failed. Facet names the piece
// of metadata whose retrieval failed first; whatever was gathered before
// it is discarded.
type LookupError struct {
	PID   uint64
	Facet string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("locate pid %d: %s: %v", e.PID, e.Facet, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the pid matched no live process,
// regardless of which strategy produced it. The direct strategy surfaces
// this as a missing proc entry, tool-backed strategies as ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ESRCH)
}

// IsDenied reports whether err means the process exists but the caller
// lacks the privilege to read its metadata.
func IsDenied(err error) bool {
	return errors.Is(err, os.ErrPermission)
}
