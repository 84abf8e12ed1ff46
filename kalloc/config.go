package kalloc

import "math"

const (
	// PageSize is the size of one frame in bytes (PGSIZE).
	PageSize = 4096

	// DefaultCPUs is the number of processors, and so of partitions (NCPU).
	DefaultCPUs = 8
	// DefaultBase is the first physical address of RAM (KERNBASE).
	DefaultBase Frame = 0x8000_0000
	// DefaultSize is the amount of RAM after [DefaultBase] (PHYSTOP - KERNBASE).
	DefaultSize = 128 << 20
	// DefaultReserved is the space taken by the kernel image.
	DefaultReserved = 1 << 20
)

// Config describes the physical range managed by an [Allocator].
// Zero fields take the defaults above, except BootCPU
// whose zero value is the first processor.
type Config struct {
	// CPUs is the number of per-processor free lists.
	CPUs int
	// Base is the first physical address of RAM.
	// It must be page aligned.
	Base Frame
	// Size is the number of bytes of RAM starting at Base.
	// It must be a multiple of [PageSize].
	Size int
	// Reserved is the number of bytes at Base that are never
	// handed out. The first usable frame is Base+Reserved
	// rounded up to a page.
	Reserved int
	// BootCPU receives every frame during boot seeding.
	BootCPU int
}

func (cfg Config) withDefaults() Config {
	if cfg.CPUs == 0 {
		cfg.CPUs = DefaultCPUs
	}
	if cfg.Base == 0 {
		cfg.Base = DefaultBase
	}
	if cfg.Size == 0 {
		cfg.Size = DefaultSize
	}
	if cfg.Reserved == 0 {
		cfg.Reserved = DefaultReserved
	}
	return cfg
}

func (cfg Config) validate() error {
	switch {
	case cfg.CPUs < 1:
		return configError("CPUs must be positive but %d was requested", cfg.CPUs)
	case cfg.BootCPU < 0 || cfg.BootCPU >= cfg.CPUs:
		return configError("BootCPU %d is not in [0, %d)", cfg.BootCPU, cfg.CPUs)
	case cfg.Base%PageSize != 0:
		return configError("Base %s is not page aligned", cfg.Base)
	case cfg.Size < PageSize || cfg.Size%PageSize != 0:
		return configError("Size %d is not a positive multiple of %d", cfg.Size, PageSize)
	case cfg.Base > math.MaxUint64-Frame(cfg.Size):
		return configError("Base %s plus Size %d overflows the address space",
			cfg.Base, cfg.Size)
	case cfg.Reserved < 0 || roundUp(cfg.Reserved) >= cfg.Size:
		return configError("Reserved %d leaves no usable pages in %d bytes",
			cfg.Reserved, cfg.Size)
	}
	return nil
}

func roundUp(n int) int { return (n + PageSize - 1) &^ (PageSize - 1) }
