package kcore

import "fmt"

type constError string

// ErrInvalidConfig may be returned from [Boot].
// Errors from the managers' own validation wrap
// [bcache.ErrInvalidConfig] or [kalloc.ErrInvalidConfig] instead.
const ErrInvalidConfig = constError("invalid configuration")

func (errStr constError) Error() string { return string(errStr) }

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
