// Package audit defines the action trail: one event per lookup or
// corrective action, appended to an external system. The trail is
// write-only from this tool's point of view; investigators query it
// with their own tooling.
package audit

import (
	"context"
	"time"
)

// EventType defines the kind of audited action.
type EventType string

const (
	EventInspect    EventType = "inspect"
	EventTerminate  EventType = "terminate"
	EventQuarantine EventType = "quarantine"
)

// Event records one action taken, or attempted, against a process.
// ExeSHA1 fingerprints the executable when it was still readable;
// Detail carries the failure diagnostic when OK is false.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	PID        uint64    `json:"pid"`
	Exe        string    `json:"exe,omitempty"`
	ExeSHA1    string    `json:"exe_sha1,omitempty"`
	OK         bool      `json:"ok"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink is a destination for audit events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
