package locator

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/loykin/procguard/internal/execgate"
	"github.com/loykin/procguard/internal/texttable"
)

// Procstat resolves records by shelling out to procstat(1), one
// invocation per facet. FreeBSD does not mount /proc by default, so this
// is the strategy there. The chroot root is not exposed by procstat and
// is always reported Unavailable.
type Procstat struct {
	Runner execgate.Runner
}

func (l Procstat) Locate(pid uint64) (Record, error) {
	exe, err := l.lastField(pid, "exe", "-b")
	if err != nil {
		return Record{}, err
	}
	cwd, err := l.lastField(pid, "cwd", "pwdx")
	if err != nil {
		return Record{}, err
	}
	args, err := l.tableValues(pid, "cmdline", "pargs")
	if err != nil {
		return Record{}, err
	}
	env, err := l.tableValues(pid, "environ", "penv")
	if err != nil {
		return Record{}, err
	}

	return Record{
		PID:     pid,
		Exe:     exe,
		Root:    Unavailable,
		Cwd:     cwd,
		Cmdline: strings.Join(args, " "),
		Environ: strings.Join(env, "\n"),
	}, nil
}

// output runs one procstat subcommand and returns its stdout, folding
// spawn failures and non-zero exits into a *LookupError.
func (l Procstat) output(pid uint64, facet, subcmd string) (string, error) {
	status, out, err := l.Runner.RunOutput("procstat", subcmd, strconv.FormatUint(pid, 10))
	if err != nil {
		return "", &LookupError{PID: pid, Facet: facet, Err: err}
	}
	if !status.Success() {
		detail := strings.TrimSpace(string(out.Stderr))
		return "", &LookupError{PID: pid, Facet: facet,
			Err: fmt.Errorf("%w: procstat %s exited %d: %s", ErrToolFailure, subcmd, status.Code, detail)}
	}
	return string(out.Stdout), nil
}

// lastField parses the single-row facets (-b, pwdx), whose wanted value
// is the last whitespace-separated token of the output.
func (l Procstat) lastField(pid uint64, facet, subcmd string) (string, error) {
	raw, err := l.output(pid, facet, subcmd)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", &LookupError{PID: pid, Facet: facet,
			Err: fmt.Errorf("%w: procstat %s printed nothing", ErrMalformed, subcmd)}
	}
	return fields[len(fields)-1], nil
}

// tableValues parses the list facets (pargs, penv): a header row, then
// one "label: value" row per entry. Rows without a colon are skipped.
func (l Procstat) tableValues(pid uint64, facet, subcmd string) ([]string, error) {
	raw, err := l.output(pid, facet, subcmd)
	if err != nil {
		return nil, err
	}
	values, skipped := texttable.Values(texttable.BodyLines(raw))
	if skipped > 0 {
		slog.Debug("procstat rows skipped", "pid", pid, "facet", facet, "skipped", skipped)
	}
	return values, nil
}
