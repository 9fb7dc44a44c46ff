// Package locator resolves a process id into a normalized forensic
// record. Each target platform exposes process metadata through an
// incompatible transport (proc pseudo-filesystem, diagnostic utility,
// privileged WMI query), so the strategy is fixed at build time behind
// one interface and callers never observe which ran.
package locator

import "fmt"

// Unavailable marks a record field the active platform strategy cannot
// resolve.
const Unavailable = "N/A"

// Record is a point-in-time snapshot of one process's identity. Fields
// reflect a single observation instant and may be stale by the time a
// corrective action runs; records are plain values, created per lookup,
// never cached, discarded by the caller after use.
type Record struct {
	PID     uint64 `json:"pid"`
	Exe     string `json:"exe"`
	Root    string `json:"root"`
	Cwd     string `json:"cwd"`
	Cmdline string `json:"cmdline"`
	Environ string `json:"environ,omitempty"`
}

// String renders the one-line pipe-delimited form used in operator output.
// Environ is deliberately left out: it is large and routinely holds
// credentials.
func (r Record) String() string {
	return fmt.Sprintf("%d | %s | %s | %s | %s", r.PID, r.Exe, r.Root, r.Cwd, r.Cmdline)
}

// Locator resolves a pid into a Record. Lookups are synchronous and
// blocking, carry no internal timeout (a hung platform tool hangs the
// lookup; callers wrap with their own bound), and share no mutable state
// across calls. A lookup either returns a fully populated record or a
// *LookupError: corrective actions key off Exe, and a half-populated
// record is strictly worse than none.
type Locator interface {
	Locate(pid uint64) (Record, error)
}
