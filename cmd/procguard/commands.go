package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/loykin/procguard"
	"github.com/loykin/procguard/pkg/client"
)

type command struct {
	out io.Writer
}

// parsePID validates the positional pid argument. The agent treats the
// pid as an opaque number; validation lives at the operator boundary.
func parsePID(s string) (uint64, error) {
	pid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pid %q: must be an unsigned decimal integer", s)
	}
	return pid, nil
}

// newAPIClient builds a client for a remote agent
func newAPIClient(apiURL, token string, timeout time.Duration) *client.Client {
	cc := client.DefaultConfig()
	cc.BaseURL = apiURL
	cc.Token = token
	if timeout > 0 {
		cc.Timeout = timeout
	}
	return client.New(cc)
}

// buildAgent assembles a local agent from the optional config file. The
// returned cleanup closes any audit sink the config opened.
func buildAgent(configPath, quarantineDir string) (*procguard.Agent, func(), error) {
	cleanup := func() {}

	var cfg procguard.Config
	if configPath != "" {
		c, sum, err := procguard.LoadConfig(configPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("error loading config: %w", err)
		}
		cfg = c
		slog.SetDefault(procguard.NewLogger(cfg.Log))
		slog.Debug("config loaded", "path", configPath, "sha1", sum)
	}

	if quarantineDir == "" {
		quarantineDir = cfg.QuarantineDir
	}

	guard := procguard.New(quarantineDir)

	if cfg.Audit.DSN != "" {
		sink, err := procguard.NewAuditSink(cfg.Audit.DSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("error opening audit sink: %w", err)
		}
		guard.SetAuditSinks(sink)
		cleanup = func() { _ = procguard.CloseSink(sink) }
	}

	return guard, cleanup, nil
}

// Inspect resolves a pid locally, or via the remote agent when
// --api-url is set
func (c *command) Inspect(f InspectFlags, pidArg string) error {
	pid, err := parsePID(pidArg)
	if err != nil {
		return err
	}

	if f.APIUrl != "" {
		return c.inspectViaAPI(f, pid)
	}
	return c.inspectLocal(f, pid)
}

func (c *command) inspectLocal(f InspectFlags, pid uint64) error {
	guard, cleanup, err := buildAgent(f.ConfigPath, "")
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := guard.Inspect(context.Background(), pid)
	if err != nil {
		return err
	}

	if !f.Environ {
		rec.Environ = ""
	}
	if f.JSON {
		c.printJSON(rec)
		return nil
	}
	_, _ = fmt.Fprintln(c.out, rec.String())
	if f.Environ && rec.Environ != "" {
		_, _ = fmt.Fprintln(c.out, renderEnviron(rec.Environ))
	}
	return nil
}

func (c *command) inspectViaAPI(f InspectFlags, pid uint64) error {
	api := newAPIClient(f.APIUrl, f.Token, f.APITimeout)
	if !api.IsReachable(context.Background()) {
		return fmt.Errorf("agent not reachable at %s - start it first with 'procguard serve'", f.APIUrl)
	}

	p, err := api.Inspect(context.Background(), pid, f.Environ)
	if err != nil {
		return err
	}

	if f.JSON {
		c.printJSON(p)
		return nil
	}
	_, _ = fmt.Fprintln(c.out, p.String())
	if f.Environ && p.Environ != "" {
		_, _ = fmt.Fprintln(c.out, renderEnviron(p.Environ))
	}
	return nil
}

// Terminate resolves a pid and issues a forced kill, locally or via the
// remote agent when --api-url is set
func (c *command) Terminate(f TerminateFlags, pidArg string) error {
	pid, err := parsePID(pidArg)
	if err != nil {
		return err
	}

	if f.APIUrl != "" {
		return c.terminateViaAPI(f, pid)
	}
	return c.terminateLocal(f, pid)
}

func (c *command) terminateLocal(f TerminateFlags, pid uint64) error {
	guard, cleanup, err := buildAgent(f.ConfigPath, "")
	if err != nil {
		return err
	}
	defer cleanup()

	rec, out, err := guard.Terminate(context.Background(), pid)
	if err != nil {
		return err
	}

	return c.renderTerminate(f, client.TerminateResult{
		PID: rec.PID,
		Exe: rec.Exe,
		Outcome: client.Outcome{
			OK:     out.OK,
			Detail: out.Detail,
		},
	})
}

func (c *command) terminateViaAPI(f TerminateFlags, pid uint64) error {
	api := newAPIClient(f.APIUrl, f.Token, f.APITimeout)
	if !api.IsReachable(context.Background()) {
		return fmt.Errorf("agent not reachable at %s - start it first with 'procguard serve'", f.APIUrl)
	}

	res, err := api.Terminate(context.Background(), pid)
	if err != nil {
		return err
	}
	return c.renderTerminate(f, res)
}

func (c *command) renderTerminate(f TerminateFlags, res client.TerminateResult) error {
	if f.JSON {
		c.printJSON(res)
	} else if res.Outcome.OK {
		_, _ = fmt.Fprintf(c.out, "terminated pid %d (%s)\n", res.PID, res.Exe)
	}
	if !res.Outcome.OK {
		return fmt.Errorf("terminate pid %d failed: %s", res.PID, res.Outcome.Detail)
	}
	return nil
}

// Quarantine moves the executable behind a pid into quarantine, locally
// or via the remote agent when --api-url is set
func (c *command) Quarantine(f QuarantineFlags, pidArg string) error {
	pid, err := parsePID(pidArg)
	if err != nil {
		return err
	}

	if f.APIUrl != "" {
		return c.quarantineViaAPI(f, pid)
	}
	return c.quarantineLocal(f, pid)
}

func (c *command) quarantineLocal(f QuarantineFlags, pid uint64) error {
	guard, cleanup, err := buildAgent(f.ConfigPath, f.QuarantineDir)
	if err != nil {
		return err
	}
	defer cleanup()

	rec, out, err := guard.Quarantine(context.Background(), pid)
	if err != nil {
		return err
	}

	return c.renderQuarantine(f, client.QuarantineResult{
		PID: rec.PID,
		Exe: rec.Exe,
		OK:  out.OK(),
		Move: client.Outcome{
			OK:     out.Move.OK,
			Detail: out.Move.Detail,
		},
		Chmod: client.Outcome{
			OK:     out.Chmod.OK,
			Detail: out.Chmod.Detail,
		},
	})
}

func (c *command) quarantineViaAPI(f QuarantineFlags, pid uint64) error {
	api := newAPIClient(f.APIUrl, f.Token, f.APITimeout)
	if !api.IsReachable(context.Background()) {
		return fmt.Errorf("agent not reachable at %s - start it first with 'procguard serve'", f.APIUrl)
	}

	res, err := api.Quarantine(context.Background(), pid)
	if err != nil {
		return err
	}
	return c.renderQuarantine(f, res)
}

func (c *command) renderQuarantine(f QuarantineFlags, res client.QuarantineResult) error {
	if f.JSON {
		c.printJSON(res)
	} else {
		_, _ = fmt.Fprintf(c.out, "quarantine pid %d (%s)\n", res.PID, res.Exe)
		_, _ = fmt.Fprintf(c.out, "  move:  %s\n", stepStatus(res.Move))
		_, _ = fmt.Fprintf(c.out, "  chmod: %s\n", stepStatus(res.Chmod))
	}
	if !res.OK {
		return fmt.Errorf("quarantine pid %d completed with failures", res.PID)
	}
	return nil
}

func stepStatus(o client.Outcome) string {
	if o.OK {
		return "ok"
	}
	return "failed: " + o.Detail
}

// renderEnviron splits a raw environment capture into lines. procfs
// separates entries with NUL bytes, procstat with newlines.
func renderEnviron(env string) string {
	env = strings.TrimRight(env, "\x00")
	return strings.ReplaceAll(env, "\x00", "\n")
}
