package disk

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/puzpuzpuz/xsync/v3"
)

// File serves each attached device from its own image file.
// Block n of a device lives at offset n*blockSize.
type File struct {
	devices   *xsync.MapOf[uint32, *os.File]
	blockSize int
}

// NewFile creates a driver with no devices attached.
func NewFile(blockSize int) *File {
	return &File{
		devices:   xsync.NewMapOf[uint32, *os.File](),
		blockSize: blockSize,
	}
}

// Attach opens (or creates) the image at path as device dev.
func (f *File) Attach(dev uint32, path string) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", path, err)
	}
	if _, loaded := f.devices.LoadOrStore(dev, file); loaded {
		file.Close()
		return fmt.Errorf("device %d is already attached", dev)
	}
	return nil
}

// Transfer implements [Driver].
func (f *File) Transfer(addr Addr, data []byte, write bool) error {
	op := direction(write)
	if len(data) != f.blockSize {
		return ioError(op, addr, sizeError(len(data), f.blockSize))
	}
	file, ok := f.devices.Load(addr.Dev)
	if !ok {
		return ioError(op, addr, ErrNoDevice)
	}
	offset := int64(addr.Block) * int64(f.blockSize)
	if write {
		if _, err := file.WriteAt(data, offset); err != nil {
			return ioError(op, addr, err)
		}
		return nil
	}
	n, err := file.ReadAt(data, offset)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return ioError(op, addr, err)
		}
		// Past the end of the image: unwritten blocks read as zeros.
		clear(data[n:])
	}
	return nil
}

// Sync flushes every attached image.
func (f *File) Sync() error {
	var errs []error
	f.devices.Range(func(dev uint32, file *os.File) bool {
		if err := file.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("device %d: %w", dev, err))
		}
		return true
	})
	return errors.Join(errs...)
}

// Close syncs and closes every attached image.
func (f *File) Close() error {
	var errs []error
	f.devices.Range(func(dev uint32, file *os.File) bool {
		if err := file.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("device %d: %w", dev, err))
		}
		if err := file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("device %d: %w", dev, err))
		}
		f.devices.Delete(dev)
		return true
	})
	return errors.Join(errs...)
}
