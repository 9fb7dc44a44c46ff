//go:build !windows

package actuator

import "strconv"

// DefaultQuarantineDir is where moved executables land when no
// directory is configured.
const DefaultQuarantineDir = "./quarantine"

func killCommand(pid uint64) (string, []string) {
	return "kill", []string{"-9", strconv.FormatUint(pid, 10)}
}

func moveCommand(exe, dir string) (string, []string) {
	return "mv", []string{exe, dir}
}

func chmodCommand(path string) (string, []string, bool) {
	return "chmod", []string{"444", path}, true
}
