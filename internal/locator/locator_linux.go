//go:build linux

package locator

// New returns the locator for the build target. Linux reads the proc
// pseudo-filesystem directly.
func New() Locator { return ProcFS{} }
