// Package agent composes the locator, actuator and audit trail into
// the operations the CLI and HTTP API expose: inspect, terminate,
// quarantine. The agent adds observability around the core calls but
// never changes their semantics.
package agent

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/loykin/procguard/internal/actuator"
	"github.com/loykin/procguard/internal/audit"
	"github.com/loykin/procguard/internal/checksum"
	"github.com/loykin/procguard/internal/locator"
	"github.com/loykin/procguard/internal/metrics"
)

// Agent executes process forensics and response operations. Construct
// with New for platform defaults, or NewWith to inject strategies.
type Agent struct {
	loc locator.Locator
	act actuator.Actuator

	mu    sync.Mutex
	sinks []audit.Sink
}

// New returns an agent backed by the platform locator and real
// commands. dir is the quarantine directory; empty selects the
// actuator default.
func New(dir string) *Agent {
	return &Agent{loc: locator.New(), act: actuator.New(dir)}
}

// NewWith returns an agent with explicit locator and actuator,
// for embedding and tests.
func NewWith(loc locator.Locator, act actuator.Actuator) *Agent {
	return &Agent{loc: loc, act: act}
}

// SetAuditSinks configures external audit sinks (SQLite, PostgreSQL,
// ClickHouse, OpenSearch). Replaces any previously configured sinks.
func (a *Agent) SetAuditSinks(sinks ...audit.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append([]audit.Sink(nil), sinks...)
}

// Inspect resolves pid into a record and audits the lookup.
func (a *Agent) Inspect(ctx context.Context, pid uint64) (locator.Record, error) {
	start := time.Now()
	rec, err := a.loc.Locate(pid)
	metrics.ObserveLookupDuration(time.Since(start).Seconds())
	metrics.IncLookup(err == nil)

	if err != nil {
		slog.Error("lookup failed", "pid", pid, "error", err)
		a.emit(ctx, audit.Event{Type: audit.EventInspect, PID: pid, Detail: err.Error()})
		return locator.Record{}, err
	}
	slog.Info("process located", "pid", pid, "exe", rec.Exe)
	a.emit(ctx, audit.Event{
		Type: audit.EventInspect, PID: pid, Exe: rec.Exe,
		ExeSHA1: a.fingerprint(rec.Exe), OK: true,
	})
	return rec, nil
}

// Terminate issues a forced kill for the recorded process and audits
// the outcome.
func (a *Agent) Terminate(ctx context.Context, rec locator.Record) actuator.Outcome {
	out := a.act.Terminate(rec)
	metrics.IncAction("terminate", out.OK)
	a.emit(ctx, audit.Event{
		Type: audit.EventTerminate, PID: rec.PID, Exe: rec.Exe,
		OK: out.OK, Detail: out.Detail,
	})
	return out
}

// Quarantine moves and de-permissions the recorded executable and
// audits the per-step outcome. The executable is fingerprinted before
// the move, while the recorded path is still expected to resolve.
func (a *Agent) Quarantine(ctx context.Context, rec locator.Record) actuator.QuarantineOutcome {
	sha := a.fingerprint(rec.Exe)
	out := a.act.Quarantine(rec)
	metrics.IncAction("quarantine", out.OK())
	a.emit(ctx, audit.Event{
		Type: audit.EventQuarantine, PID: rec.PID, Exe: rec.Exe, ExeSHA1: sha,
		OK: out.OK(), Detail: quarantineDetail(out),
	})
	return out
}

// TerminatePID resolves the pid first, so the audit trail names the
// executable being killed, then terminates. A failed lookup blocks the
// action: acting on a pid nothing could be learned about is how the
// wrong process gets killed.
func (a *Agent) TerminatePID(ctx context.Context, pid uint64) (locator.Record, actuator.Outcome, error) {
	rec, err := a.Inspect(ctx, pid)
	if err != nil {
		return locator.Record{}, actuator.Outcome{}, err
	}
	return rec, a.Terminate(ctx, rec), nil
}

// QuarantinePID resolves the pid first, then quarantines its
// executable. A failed lookup blocks the action.
func (a *Agent) QuarantinePID(ctx context.Context, pid uint64) (locator.Record, actuator.QuarantineOutcome, error) {
	rec, err := a.Inspect(ctx, pid)
	if err != nil {
		return locator.Record{}, actuator.QuarantineOutcome{}, err
	}
	return rec, a.Quarantine(ctx, rec), nil
}

// emit sends the event to every configured sink, best effort: a sink
// failure is logged and counted, never surfaced to the operation.
func (a *Agent) emit(ctx context.Context, e audit.Event) {
	a.mu.Lock()
	sinks := append([]audit.Sink(nil), a.sinks...)
	a.mu.Unlock()

	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	for _, s := range sinks {
		if err := s.Send(ctx, e); err != nil {
			metrics.IncAuditSendFailure()
			slog.Warn("audit send failed", "type", e.Type, "pid", e.PID, "error", err)
		}
	}
}

func (a *Agent) fingerprint(exe string) string {
	if exe == "" || exe == locator.Unavailable {
		return ""
	}
	sum, err := checksum.SHA1File(exe)
	if err != nil {
		slog.Debug("exe fingerprint unavailable", "exe", exe, "error", err)
		return ""
	}
	return sum
}

func quarantineDetail(out actuator.QuarantineOutcome) string {
	var parts []string
	if !out.Move.OK {
		parts = append(parts, "move: "+out.Move.Detail)
	}
	if !out.Chmod.OK {
		parts = append(parts, "chmod: "+out.Chmod.Detail)
	}
	return strings.Join(parts, "; ")
}
