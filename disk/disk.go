// Package disk provides the block devices the buffer cache reads from and
// writes to. A [Driver] moves exactly one block per call and blocks the
// caller until the transfer is complete.
package disk

import "fmt"

type constError string

const (
	// ErrIO is wrapped by every transfer failure.
	ErrIO = constError("disk i/o error")
	// ErrNoDevice is returned for a device that was never attached.
	ErrNoDevice = constError("no such device")
)

func (errStr constError) Error() string { return string(errStr) }

// Addr names one block on one device.
type Addr struct {
	Dev   uint32
	Block uint32
}

func (a Addr) String() string { return fmt.Sprintf("%d/%d", a.Dev, a.Block) }

// Driver transfers a single block between a device and memory.
// When write is false, data is filled from the device;
// otherwise data is written to it. len(data) is the block size.
type Driver interface {
	Transfer(addr Addr, data []byte, write bool) error
}

func ioError(op string, addr Addr, err error) error {
	return fmt.Errorf("%w: %s block %s: %w", ErrIO, op, addr, err)
}

func direction(write bool) string {
	if write {
		return "write"
	}
	return "read"
}

func sizeError(got, want int) error {
	return fmt.Errorf("buffer of %d bytes, block size is %d", got, want)
}
