package actuator

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loykin/procguard/internal/execgate"
	"github.com/loykin/procguard/internal/locator"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("asserts unix command argv")
	}
}

// cmdRecorder is a scripted execgate.Runner: call i gets status[i] and
// errs[i], missing entries default to success.
type cmdRecorder struct {
	calls  [][]string
	status []execgate.ExitStatus
	errs   []error
}

func (r *cmdRecorder) Run(program string, args ...string) (execgate.ExitStatus, error) {
	i := len(r.calls)
	r.calls = append(r.calls, append([]string{program}, args...))
	var status execgate.ExitStatus
	if i < len(r.status) {
		status = r.status[i]
	}
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return status, err
}

func (r *cmdRecorder) RunOutput(program string, args ...string) (execgate.ExitStatus, execgate.Output, error) {
	status, err := r.Run(program, args...)
	return status, execgate.Output{}, err
}

func TestTerminate(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{}

	out := Actuator{Runner: runner}.Terminate(locator.Record{PID: 1234, Exe: "/tmp/evil"})
	if !out.OK {
		t.Fatalf("terminate reported failure: %q", out.Detail)
	}
	assert.Equal(t, [][]string{{"kill", "-9", "1234"}}, runner.calls)
}

func TestTerminateNonZeroExit(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{status: []execgate.ExitStatus{{Code: 1}}}

	out := Actuator{Runner: runner}.Terminate(locator.Record{PID: 99})
	assert.False(t, out.OK)
	assert.Equal(t, "kill exited 1", out.Detail)
}

func TestTerminateSpawnError(t *testing.T) {
	runner := &cmdRecorder{errs: []error{errors.New("exec: permission denied")}}

	out := Actuator{Runner: runner}.Terminate(locator.Record{PID: 99})
	assert.False(t, out.OK)
	assert.Contains(t, out.Detail, "permission denied")
}

func TestQuarantineBothStepsSucceed(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{}

	out := Actuator{Runner: runner, QuarantineDir: "/var/quarantine"}.
		Quarantine(locator.Record{PID: 1234, Exe: "/tmp/evil"})
	if !out.OK() {
		t.Fatalf("quarantine reported failure: %+v", out)
	}
	assert.Equal(t, [][]string{
		{"mv", "/tmp/evil", "/var/quarantine"},
		{"chmod", "444", "/tmp/evil"},
	}, runner.calls)
}

func TestQuarantineMoveOKChmodFails(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{status: []execgate.ExitStatus{{Code: 0}, {Code: 1}}}

	out := Actuator{Runner: runner}.Quarantine(locator.Record{PID: 1234, Exe: "/tmp/evil"})
	assert.True(t, out.Move.OK)
	assert.False(t, out.Chmod.OK)
	assert.Equal(t, "chmod exited 1", out.Chmod.Detail)
	assert.False(t, out.OK())
}

// The permission strip must still be attempted after a failed move.
func TestQuarantineChmodRunsAfterMoveFailure(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{status: []execgate.ExitStatus{{Code: 1}, {Code: 0}}}

	out := Actuator{Runner: runner}.Quarantine(locator.Record{PID: 7, Exe: "/tmp/x"})
	assert.False(t, out.Move.OK)
	assert.True(t, out.Chmod.OK)
	assert.Len(t, runner.calls, 2)
	assert.False(t, out.OK())
}

func TestQuarantineDefaultDir(t *testing.T) {
	requireUnix(t)
	runner := &cmdRecorder{}

	Actuator{Runner: runner}.Quarantine(locator.Record{Exe: "/tmp/x"})
	assert.Equal(t, []string{"mv", "/tmp/x", DefaultQuarantineDir}, runner.calls[0])
}
