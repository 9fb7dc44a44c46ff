package locator

import (
	"os"
	"path/filepath"
	"strconv"
)

// ProcFS resolves records by direct introspection of the proc
// pseudo-filesystem: three symlink reads and two file reads per lookup,
// no subprocesses. This is the Linux strategy.
//
// Cmdline and Environ keep the kernel's raw NUL separators; rendering
// is the consumer's concern.
type ProcFS struct {
	// Root overrides the pseudo-filesystem mount point. Empty means
	// /proc; tests point it at a fabricated tree.
	Root string
}

func (l ProcFS) Locate(pid uint64) (Record, error) {
	root := l.Root
	if root == "" {
		root = "/proc"
	}
	dir := filepath.Join(root, strconv.FormatUint(pid, 10))

	exe, err := os.Readlink(filepath.Join(dir, "exe"))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "exe", Err: err}
	}
	chroot, err := os.Readlink(filepath.Join(dir, "root"))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "root", Err: err}
	}
	cwd, err := os.Readlink(filepath.Join(dir, "cwd"))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "cwd", Err: err}
	}
	cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "cmdline", Err: err}
	}
	environ, err := os.ReadFile(filepath.Join(dir, "environ"))
	if err != nil {
		return Record{}, &LookupError{PID: pid, Facet: "environ", Err: err}
	}

	return Record{
		PID:     pid,
		Exe:     exe,
		Root:    chroot,
		Cwd:     cwd,
		Cmdline: string(cmdline),
		Environ: string(environ),
	}, nil
}
