//go:build freebsd

package locator

import "github.com/loykin/procguard/internal/execgate"

// New returns the locator for the build target. FreeBSD ships without a
// mounted /proc, so lookups go through the procstat utility.
func New() Locator { return Procstat{Runner: execgate.Gateway{}} }
