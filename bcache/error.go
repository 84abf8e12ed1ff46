package bcache

import "fmt"

type constError string

const (
	// ErrNoBuffers is returned by [Cache.TryRead] when every buffer
	// in every bucket is referenced.
	ErrNoBuffers = constError("no buffers")
	// ErrInvalidConfig may be returned from [New].
	ErrInvalidConfig = constError("invalid configuration")
)

func (errStr constError) Error() string { return string(errStr) }

func configError(field string, value int) error {
	return fmt.Errorf(
		"%w: %s must be positive but %d was requested",
		ErrInvalidConfig, field, value)
}
