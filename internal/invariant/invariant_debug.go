//go:build kcore_debug

package invariant

// Enabled reports whether expensive consistency checks run.
const Enabled = true

// Assert raises a contract violation for op when cond is false.
func Assert(cond bool, op, message string) {
	if !cond {
		violation(op, message)
	}
}
