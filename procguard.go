package procguard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/loykin/procguard/internal/actuator"
	"github.com/loykin/procguard/internal/agent"
	"github.com/loykin/procguard/internal/audit"
	"github.com/loykin/procguard/internal/audit/factory"
	"github.com/loykin/procguard/internal/checksum"
	cfg "github.com/loykin/procguard/internal/config"
	"github.com/loykin/procguard/internal/locator"
	"github.com/loykin/procguard/internal/logger"
	"github.com/loykin/procguard/internal/metrics"
	iapi "github.com/loykin/procguard/internal/server"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Record = locator.Record

type Locator = locator.Locator

type Outcome = actuator.Outcome

type QuarantineOutcome = actuator.QuarantineOutcome

type AuditEvent = audit.Event

type AuditSink = audit.Sink

type Config = cfg.Config

type ServerConfig = cfg.ServerConfig

type LogConfig = logger.Config

type SlogConfig = logger.SlogConfig

type FileConfig = logger.FileConfig

// Unavailable marks record facets the platform strategy cannot provide.
const Unavailable = locator.Unavailable

// Agent is a thin facade over internal/agent.Agent.
// It provides a stable public API for embedding.

type Agent struct{ inner *agent.Agent }

// New returns an agent backed by the platform lookup strategy and real
// platform commands. quarantineDir may be empty for the default.
func New(quarantineDir string) *Agent { return &Agent{inner: agent.New(quarantineDir)} }

// NewWithLocator returns an agent with a caller-supplied lookup
// strategy, for embedding and tests.
func NewWithLocator(loc Locator, quarantineDir string) *Agent {
	return &Agent{inner: agent.NewWith(loc, actuator.New(quarantineDir))}
}

func (a *Agent) SetAuditSinks(sinks ...AuditSink) { a.inner.SetAuditSinks(sinks...) }

// Inspect resolves pid into a normalized record.
func (a *Agent) Inspect(ctx context.Context, pid uint64) (Record, error) {
	return a.inner.Inspect(ctx, pid)
}

// Terminate resolves pid and issues a forced kill. The returned record
// names what was killed; a failed lookup aborts the action.
func (a *Agent) Terminate(ctx context.Context, pid uint64) (Record, Outcome, error) {
	return a.inner.TerminatePID(ctx, pid)
}

// Quarantine resolves pid, moves its executable into quarantine and
// strips permissions from the original path. A failed lookup aborts the
// action; a failed step does not abort the other.
func (a *Agent) Quarantine(ctx context.Context, pid uint64) (Record, QuarantineOutcome, error) {
	return a.inner.QuarantinePID(ctx, pid)
}

// IsNotFound reports whether err means the pid has no live process
// behind it, as opposed to a tool failure or unparsable output.
func IsNotFound(err error) bool { return locator.IsNotFound(err) }

// NewLocator returns the lookup strategy for the current platform:
// procfs on Linux, procstat on FreeBSD, WMI via PowerShell on Windows.
func NewLocator() Locator { return locator.New() }

// SHA1File fingerprints a file the same way audit events do.
func SHA1File(path string) (string, error) { return checksum.SHA1File(path) }

// LoadConfig parses a TOML config file and returns it with its SHA-1
// fingerprint.
func LoadConfig(path string) (Config, string, error) { return cfg.Load(path) }

// NewLogger builds a slog logger from config. Callers typically hand it
// to slog.SetDefault.
func NewLogger(c LogConfig) *slog.Logger { return c.NewSlogger() }

// NewAuditSink constructs an audit sink from its DSN. Supported
// schemes: sqlite://, postgres://, clickhouse://, opensearch://.
func NewAuditSink(dsn string) (AuditSink, error) { return factory.NewSinkFromDSN(dsn) }

// CloseSink closes a sink when its concrete type supports it.
func CloseSink(s AuditSink) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// NewHTTPServer starts an HTTP server exposing the agent API using the
// given listener config.
func NewHTTPServer(a *Agent, sc ServerConfig) (*http.Server, error) {
	return iapi.NewServer(a.inner, sc)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the default registry.
// It returns any immediate listen error; otherwise it runs the server in the caller goroutine.
func ServeMetrics(addr string) error {
	http.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}
