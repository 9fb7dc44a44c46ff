//go:build windows

package locator

import "github.com/loykin/procguard/internal/execgate"

// New returns the locator for the build target. Windows lookups go
// through a WMI query issued via PowerShell.
func New() Locator { return WMIQuery{Runner: execgate.Gateway{}} }
