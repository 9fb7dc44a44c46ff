//go:build !linux && !freebsd && !windows

package locator

type unsupported struct{}

func (unsupported) Locate(pid uint64) (Record, error) {
	return Record{}, &LookupError{PID: pid, Facet: "platform", Err: ErrUnsupported}
}

// New returns the locator for the build target; this platform has none.
func New() Locator { return unsupported{} }
