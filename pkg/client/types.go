package client

import "fmt"

// Process is the wire form of an inspected process. Facets a lookup
// strategy cannot provide are "N/A"; Environ is present only when the
// inspect call asked for it.
type Process struct {
	PID     uint64 `json:"pid"`
	Exe     string `json:"exe"`
	Root    string `json:"root"`
	Cwd     string `json:"cwd"`
	Cmdline string `json:"cmdline"`
	Environ string `json:"environ,omitempty"`
}

// String renders the one-line pipe-delimited form used in operator
// output, matching what the agent itself prints.
func (p Process) String() string {
	return fmt.Sprintf("%d | %s | %s | %s | %s", p.PID, p.Exe, p.Root, p.Cwd, p.Cmdline)
}

// Outcome is one action step as reported by the daemon.
type Outcome struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// TerminateResult reports a forced kill.
type TerminateResult struct {
	PID     uint64  `json:"pid"`
	Exe     string  `json:"exe"`
	Outcome Outcome `json:"outcome"`
}

// QuarantineResult reports the two quarantine steps. OK is their
// conjunction; a half-completed quarantine keeps the per-step detail.
type QuarantineResult struct {
	PID   uint64  `json:"pid"`
	Exe   string  `json:"exe"`
	OK    bool    `json:"ok"`
	Move  Outcome `json:"move"`
	Chmod Outcome `json:"chmod"`
}

// Health is the daemon's healthz self-report.
type Health struct {
	Status        string  `json:"status"`
	PID           int     `json:"pid"`
	GOOS          string  `json:"goos"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent,omitempty"`
	MemoryRSS     uint64  `json:"memory_rss_bytes,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}
