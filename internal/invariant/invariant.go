//go:build !kcore_debug

// Package invariant gates consistency checks that are too expensive for
// regular builds. Build with `-tags kcore_debug` to enable them.
package invariant

// Enabled reports whether expensive consistency checks run.
const Enabled = false

// Assert is a no-op without the kcore_debug tag.
func Assert(bool, string, string) {}
