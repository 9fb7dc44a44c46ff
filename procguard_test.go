package procguard

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func requireLinux(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc")
	}
}

func TestAgentSelfInspect(t *testing.T) {
	requireLinux(t)
	a := New("")
	rec, err := a.Inspect(context.Background(), uint64(os.Getpid()))
	if err != nil {
		t.Fatalf("inspect self: %v", err)
	}
	if rec.PID != uint64(os.Getpid()) || rec.Exe == "" || rec.Exe == Unavailable {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Cwd == "" || rec.Cmdline == "" {
		t.Fatalf("record facets missing: %+v", rec)
	}
}

func TestAgentInspectNotFound(t *testing.T) {
	requireLinux(t)
	a := New("")
	// Far above kernel.pid_max; the procfs entry cannot exist.
	_, err := a.Inspect(context.Background(), 1<<40)
	if err == nil {
		t.Fatal("expected lookup failure")
	}
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestAgentTerminateReal(t *testing.T) {
	requireLinux(t)
	cmd := exec.Command("sleep", "60")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	defer func() { _ = cmd.Process.Kill() }()

	a := New("")
	rec, out, err := a.Terminate(context.Background(), uint64(cmd.Process.Pid))
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if !out.OK {
		t.Fatalf("outcome = %+v", out)
	}
	if rec.PID != uint64(cmd.Process.Pid) {
		t.Fatalf("record pid = %d", rec.PID)
	}
	if err := cmd.Wait(); err == nil {
		t.Fatal("sleep should have been killed")
	}
}

func TestLoadConfigFacade(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "procguard.toml")
	cfg := `
quarantine_dir = "/tmp/q"

[server]
listen = "127.0.0.1:9555"
`
	if err := os.WriteFile(p, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	c, sum, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.QuarantineDir != "/tmp/q" || c.Server.Listen != "127.0.0.1:9555" {
		t.Fatalf("config = %+v", c)
	}
	if len(sum) != 40 {
		t.Fatalf("fingerprint = %q", sum)
	}
}

func TestNewLoggerFacade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")
	lg := NewLogger(LogConfig{
		Slog: SlogConfig{Level: "debug", Format: "json"},
		File: FileConfig{Path: path},
	})
	lg.Info("facade logger", "k", "v")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file empty")
	}
}

func TestMetricsHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterMetrics(reg); err != nil {
		t.Fatalf("RegisterMetrics: %v", err)
	}
	if err := RegisterMetricsDefault(); err != nil {
		t.Fatalf("RegisterMetricsDefault: %v", err)
	}
}

func TestAuditSinkFacade(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "audit.db")
	sink, err := NewAuditSink(dsn)
	if err != nil {
		t.Fatalf("NewAuditSink: %v", err)
	}
	evt := AuditEvent{Type: "inspect", OccurredAt: time.Now().UTC(), PID: 1, OK: true}
	if err := sink.Send(context.Background(), evt); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := CloseSink(sink); err != nil {
		t.Fatalf("CloseSink: %v", err)
	}
}
