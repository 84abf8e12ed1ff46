package invariant

import "github.com/djdv/go-kcore/fault"

func violation(op, message string) { fault.Violation(op, "%s", message) }
