package kalloc

import "fmt"

type constError string

const (
	// ErrNoMemory is returned by [Allocator.Alloc]
	// when every partition is empty.
	ErrNoMemory = constError("out of memory")
	// ErrInvalidConfig may be returned from [New].
	ErrInvalidConfig = constError("invalid configuration")
)

func (errStr constError) Error() string { return string(errStr) }

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
