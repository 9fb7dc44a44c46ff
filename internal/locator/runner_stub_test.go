package locator

import (
	"fmt"

	"github.com/loykin/procguard/internal/execgate"
)

// scriptRunner is a canned execgate.Runner for strategy tests: it
// records every argv it sees and plays back replies in order.
type scriptRunner struct {
	calls   [][]string
	replies []reply
}

type reply struct {
	status execgate.ExitStatus
	stdout string
	stderr string
	err    error
}

func (r *scriptRunner) RunOutput(program string, args ...string) (execgate.ExitStatus, execgate.Output, error) {
	call := append([]string{program}, args...)
	r.calls = append(r.calls, call)
	if len(r.replies) == 0 {
		return execgate.ExitStatus{Code: -1}, execgate.Output{}, fmt.Errorf("unscripted call: %v", call)
	}
	rep := r.replies[0]
	r.replies = r.replies[1:]
	return rep.status, execgate.Output{Stdout: []byte(rep.stdout), Stderr: []byte(rep.stderr)}, rep.err
}

func (r *scriptRunner) Run(program string, args ...string) (execgate.ExitStatus, error) {
	status, _, err := r.RunOutput(program, args...)
	return status, err
}

func ok(stdout string) reply {
	return reply{status: execgate.ExitStatus{Code: 0}, stdout: stdout}
}

func fail(code int, stderr string) reply {
	return reply{status: execgate.ExitStatus{Code: code}, stderr: stderr}
}
