// Package execgate is the single place this module spawns external
// commands. Stdout and stderr are always captured, never inherited, so
// diagnostic output can be parsed or attached to error reports. The
// gateway performs no retries and no timeouts: a hung tool hangs the
// calling operation, and callers wanting a bound must wrap their call.
package execgate

import (
	"bytes"
	"errors"
	"io"
	"os/exec"
)

// ExitStatus is the observed exit of a finished subprocess.
type ExitStatus struct {
	Code int
}

// Success reports whether the subprocess exited zero.
func (s ExitStatus) Success() bool { return s.Code == 0 }

// Output carries everything a finished subprocess wrote.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner spawns one subprocess per call and blocks until it exits.
// A non-zero exit is reported through ExitStatus, not as an error; errors
// mean the subprocess could not be spawned or waited on at all. Tests
// substitute a scripted Runner for the real Gateway.
type Runner interface {
	// Run waits for the subprocess and reports its exit status only.
	Run(program string, args ...string) (ExitStatus, error)
	// RunOutput waits for the subprocess and additionally returns the
	// captured output.
	RunOutput(program string, args ...string) (ExitStatus, Output, error)
}

// Gateway is the os/exec-backed Runner.
type Gateway struct{}

// Spawn launches program with args. Stdout and stderr are captured into
// the returned handle; stdin is attached as a pipe only when wantStdin is
// set (callers must close it or the child may never exit). Exactly one of
// Wait or WaitOutput must be called to reap the child.
func (Gateway) Spawn(program string, args []string, wantStdin bool) (*Handle, error) {
	// #nosec G204 -- program and args come from fixed platform command
	// tables or operator-supplied paths, not remote input.
	cmd := exec.Command(program, args...)
	h := &Handle{cmd: cmd}
	cmd.Stdout = &h.stdout
	cmd.Stderr = &h.stderr
	if wantStdin {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		h.stdin = pipe
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

func (g Gateway) Run(program string, args ...string) (ExitStatus, error) {
	h, err := g.Spawn(program, args, false)
	if err != nil {
		return ExitStatus{Code: -1}, err
	}
	return h.Wait()
}

func (g Gateway) RunOutput(program string, args ...string) (ExitStatus, Output, error) {
	h, err := g.Spawn(program, args, false)
	if err != nil {
		return ExitStatus{Code: -1}, Output{}, err
	}
	return h.WaitOutput()
}

// Handle is one live spawned subprocess.
type Handle struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// Stdin returns the pipe attached at spawn time, or nil.
func (h *Handle) Stdin() io.WriteCloser { return h.stdin }

// Wait blocks until the subprocess exits and returns its exit status.
// A non-zero exit is not an error.
func (h *Handle) Wait() (ExitStatus, error) {
	err := h.cmd.Wait()
	if err == nil {
		return ExitStatus{}, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ExitStatus{Code: ee.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, err
}

// WaitOutput blocks until the subprocess exits and returns the exit
// status together with the captured stdout and stderr.
func (h *Handle) WaitOutput() (ExitStatus, Output, error) {
	st, err := h.Wait()
	return st, Output{Stdout: h.stdout.Bytes(), Stderr: h.stderr.Bytes()}, err
}
