package locator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/loykin/procguard/internal/execgate"
	"github.com/loykin/procguard/internal/texttable"
)

// wmiProcessQuery is the query WMIQuery issues, parameterized by pid.
// Format-List prints "Label : value" rows but wraps long values onto
// unlabeled continuation lines at the console width; those lines carry
// no colon and are dropped, so over-long command lines arrive truncated.
const wmiProcessQuery = `Get-WmiObject Win32_Process -Filter "ProcessId = %d" | Select-Object ExecutablePath, CommandLine | Format-List`

// Recognized row labels. Everything else in the response is ignored.
const (
	wmiLabelExecutablePath = "ExecutablePath"
	wmiLabelCommandLine    = "CommandLine"
)

// WMIQuery resolves records through a single WMI query issued via
// PowerShell, the Windows strategy. WMI only exposes the executable path
// and command line; root, cwd and environment are always Unavailable.
// The query requires administrative rights for processes of other users.
type WMIQuery struct {
	Runner execgate.Runner
}

func (l WMIQuery) Locate(pid uint64) (Record, error) {
	status, out, err := l.Runner.RunOutput("powershell",
		"-ExecutionPolicy", "Bypass", fmt.Sprintf(wmiProcessQuery, pid))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "query", Err: err}
	}
	if !status.Success() {
		detail := strings.TrimSpace(string(out.Stderr))
		return Record{}, &LookupError{PID: pid, Facet: "query",
			Err: fmt.Errorf("%w: powershell exited %d: %s", ErrToolFailure, status.Code, detail)}
	}

	rec := Record{
		PID:     pid,
		Exe:     Unavailable,
		Root:    Unavailable,
		Cwd:     Unavailable,
		Cmdline: Unavailable,
		Environ: Unavailable,
	}
	matched := 0
	dropped := 0
	for _, line := range texttable.Lines(string(out.Stdout)) {
		label, value, ok := texttable.SplitColon(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				dropped++
			}
			continue
		}
		switch label {
		case wmiLabelExecutablePath:
			rec.Exe = value
			matched++
		case wmiLabelCommandLine:
			rec.Cmdline = value
			matched++
		}
	}
	if dropped > 0 {
		slog.Debug("wmi rows dropped", "pid", pid, "dropped", dropped)
	}
	// A filter matching no process still exits zero: the response simply
	// carries none of the labels we asked for. Report that as not found
	// rather than hand back a record full of placeholders.
	if matched == 0 {
		return Record{}, &LookupError{PID: pid, Facet: "query", Err: ErrNotFound}
	}
	return rec, nil
}
