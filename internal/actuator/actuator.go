// Package actuator carries out corrective actions against a located
// process: forced termination and quarantine of its executable. Actions
// run through the same platform tools an operator would use by hand, so
// their effects and failure modes match manual response.
package actuator

import (
	"fmt"
	"log/slog"

	"github.com/loykin/procguard/internal/execgate"
	"github.com/loykin/procguard/internal/locator"
)

// permissionAdvice is reported when the platform has no primitive to
// strip permissions; the moved file keeps its execute bits until an
// operator revokes them by hand.
const permissionAdvice = "no permission-strip primitive on this platform; revoke execute access manually"

// Outcome is the result of one action step. Detail holds diagnostic
// text for operators, not for machine parsing.
type Outcome struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// QuarantineOutcome reports the two quarantine steps separately. The
// steps are independent and non-transactional: the permission strip
// runs even when the move failed, and a half-completed quarantine is
// left as-is for manual follow-up.
type QuarantineOutcome struct {
	Move  Outcome `json:"move"`
	Chmod Outcome `json:"chmod"`
}

// OK is the conjunction of both steps. The per-step outcomes stay
// inspectable for callers that need to know which half failed.
func (q QuarantineOutcome) OK() bool { return q.Move.OK && q.Chmod.OK }

// Actuator executes actions against the process a Record names. It
// trusts the record as handed to it: between lookup and action the exe
// may have been replaced or the pid reused, and no re-verification is
// attempted to close that window.
type Actuator struct {
	// Runner issues the platform commands; execgate.Gateway{} for real
	// use, a stub in tests.
	Runner execgate.Runner
	// QuarantineDir receives moved executables. It must already exist;
	// relative paths resolve against the working directory. Empty means
	// DefaultQuarantineDir.
	QuarantineDir string
}

// New returns an actuator that issues real commands.
func New(dir string) Actuator {
	return Actuator{Runner: execgate.Gateway{}, QuarantineDir: dir}
}

// Terminate requests a forced kill of the recorded pid. A non-zero exit
// from the kill primitive is a failed Outcome, not a Go error; the
// caller decides severity.
func (a Actuator) Terminate(rec locator.Record) Outcome {
	program, args := killCommand(rec.PID)
	return a.step("terminate", rec, program, args)
}

// Quarantine moves the recorded executable into the quarantine
// directory, then strips write and execute permission from the original
// path. Both steps always run regardless of the other's result; nothing
// is rolled back.
func (a Actuator) Quarantine(rec locator.Record) QuarantineOutcome {
	dir := a.QuarantineDir
	if dir == "" {
		dir = DefaultQuarantineDir
	}

	var out QuarantineOutcome
	program, args := moveCommand(rec.Exe, dir)
	out.Move = a.step("quarantine move", rec, program, args)

	if program, args, ok := chmodCommand(rec.Exe); ok {
		out.Chmod = a.step("quarantine chmod", rec, program, args)
	} else {
		slog.Error("quarantine chmod unavailable", "pid", rec.PID, "exe", rec.Exe)
		out.Chmod = Outcome{Detail: permissionAdvice}
	}
	return out
}

func (a Actuator) step(what string, rec locator.Record, program string, args []string) Outcome {
	status, err := a.Runner.Run(program, args...)
	if err != nil {
		slog.Error(what+" failed", "pid", rec.PID, "exe", rec.Exe, "error", err)
		return Outcome{Detail: err.Error()}
	}
	if !status.Success() {
		detail := fmt.Sprintf("%s exited %d", program, status.Code)
		slog.Error(what+" failed", "pid", rec.PID, "exe", rec.Exe, "detail", detail)
		return Outcome{Detail: detail}
	}
	return Outcome{OK: true}
}
