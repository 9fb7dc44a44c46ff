//go:build windows

package actuator

import "strconv"

// DefaultQuarantineDir is where moved executables land when no
// directory is configured.
const DefaultQuarantineDir = ".\\quarantine"

func killCommand(pid uint64) (string, []string) {
	return "taskkill", []string{"/PID", strconv.FormatUint(pid, 10), "/F"}
}

func moveCommand(exe, dir string) (string, []string) {
	return "move", []string{exe, dir}
}

// There is no chmod counterpart to shell out to on Windows; the
// permission step is reported as failed with revocation advice.
func chmodCommand(string) (string, []string, bool) {
	return "", nil, false
}
