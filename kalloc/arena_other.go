//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package kalloc

func mapArena(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), func([]byte) error { return nil }, nil
}
