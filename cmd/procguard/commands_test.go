package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

func requireLinux(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc")
	}
}

func TestParsePID(t *testing.T) {
	if pid, err := parsePID("1234"); err != nil || pid != 1234 {
		t.Fatalf("parsePID(1234) = %d, %v", pid, err)
	}
	for _, bad := range []string{"", "abc", "-1", "1.5", "0x10", " 1"} {
		if _, err := parsePID(bad); err == nil {
			t.Errorf("parsePID(%q) should fail", bad)
		}
	}
}

func TestRenderEnviron(t *testing.T) {
	got := renderEnviron("PATH=/usr/bin\x00HOME=/root\x00")
	want := "PATH=/usr/bin\nHOME=/root"
	if got != want {
		t.Fatalf("renderEnviron = %q, want %q", got, want)
	}
	// procstat-style newline separation passes through unchanged
	if got := renderEnviron("A=1\nB=2"); got != "A=1\nB=2" {
		t.Fatalf("renderEnviron = %q", got)
	}
}

func TestInspectRejectsBadPID(t *testing.T) {
	var buf bytes.Buffer
	c := command{out: &buf}
	err := c.Inspect(InspectFlags{}, "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid pid") {
		t.Fatalf("err = %v", err)
	}
}

func TestInspectLocalSelf(t *testing.T) {
	requireLinux(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	if err := c.Inspect(InspectFlags{}, strconv.Itoa(os.Getpid())); err != nil {
		t.Fatalf("inspect self: %v", err)
	}
	line := buf.String()
	if !strings.HasPrefix(line, strconv.Itoa(os.Getpid())+" | ") {
		t.Fatalf("output should start with the pid: %s", line)
	}
}

func TestInspectLocalJSON(t *testing.T) {
	requireLinux(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	if err := c.Inspect(InspectFlags{JSON: true}, strconv.Itoa(os.Getpid())); err != nil {
		t.Fatalf("inspect self: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["pid"] != float64(os.Getpid()) {
		t.Fatalf("unexpected pid in output: %v", rec["pid"])
	}
	if _, ok := rec["environ"]; ok {
		t.Fatal("environ should be withheld without --environ")
	}
}

func TestTerminateLocal(t *testing.T) {
	requireLinux(t)
	sleep := exec.Command("sleep", "60")
	if err := sleep.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	defer func() { _ = sleep.Process.Kill() }()

	var buf bytes.Buffer
	c := command{out: &buf}
	if err := c.Terminate(TerminateFlags{}, strconv.Itoa(sleep.Process.Pid)); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if !strings.Contains(buf.String(), "terminated pid") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	_ = sleep.Wait()
}

// newTestAgent fakes the remote agent API surface the client calls.
func newTestAgent(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	mux.HandleFunc("/processes/1234", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pid": 1234, "exe": "/usr/bin/python3", "root": "/", "cwd": "/home", "cmdline": "python3 app.py",
		})
	})
	mux.HandleFunc("/processes/1234/terminate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pid": 1234, "exe": "/usr/bin/python3", "outcome": map[string]any{"ok": true},
		})
	})
	mux.HandleFunc("/processes/1234/quarantine", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pid": 1234, "exe": "/usr/bin/python3", "ok": false,
			"move":  map[string]any{"ok": true},
			"chmod": map[string]any{"ok": false, "detail": "chmod exited 1"},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestInspectViaAPI(t *testing.T) {
	ts := newTestAgent(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	if err := c.Inspect(InspectFlags{APIUrl: ts.URL}, "1234"); err != nil {
		t.Fatalf("inspect via API: %v", err)
	}
	if !strings.Contains(buf.String(), "/usr/bin/python3") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestTerminateViaAPI(t *testing.T) {
	ts := newTestAgent(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	if err := c.Terminate(TerminateFlags{APIUrl: ts.URL}, "1234"); err != nil {
		t.Fatalf("terminate via API: %v", err)
	}
	if !strings.Contains(buf.String(), "terminated pid 1234") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestQuarantineViaAPIPartialFailure(t *testing.T) {
	ts := newTestAgent(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	err := c.Quarantine(QuarantineFlags{APIUrl: ts.URL}, "1234")
	if err == nil || !strings.Contains(err.Error(), "completed with failures") {
		t.Fatalf("err = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "move:  ok") {
		t.Fatalf("expected move step in output: %s", out)
	}
	if !strings.Contains(out, "chmod: failed: chmod exited 1") {
		t.Fatalf("expected chmod failure in output: %s", out)
	}
}

func TestQuarantineViaAPIJSON(t *testing.T) {
	ts := newTestAgent(t)
	var buf bytes.Buffer
	c := command{out: &buf}
	err := c.Quarantine(QuarantineFlags{APIUrl: ts.URL, JSON: true}, "1234")
	if err == nil {
		t.Fatal("expected failure error alongside JSON output")
	}
	var res map[string]any
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if res["ok"] != false {
		t.Fatalf("unexpected ok: %v", res["ok"])
	}
}

func TestUnreachableAgent(t *testing.T) {
	var buf bytes.Buffer
	c := command{out: &buf}
	err := c.Inspect(InspectFlags{APIUrl: "http://127.0.0.1:1"}, "1234")
	if err == nil || !strings.Contains(err.Error(), "not reachable") {
		t.Fatalf("err = %v", err)
	}
}
