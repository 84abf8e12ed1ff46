//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package kalloc

import "golang.org/x/sys/unix"

// mapArena reserves size bytes of anonymous memory
// outside the Go heap to stand in for physical RAM.
func mapArena(size int) ([]byte, func([]byte) error, error) {
	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return mem, unix.Munmap, nil
}
