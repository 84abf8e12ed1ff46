package kcore

import (
	"fmt"

	"github.com/djdv/go-kcore/bcache"
	"github.com/djdv/go-kcore/disk"
	"github.com/djdv/go-kcore/kalloc"
	"github.com/djdv/go-kcore/klog"
	"github.com/dustin/go-humanize"
)

type (
	// Config sizes both managers. Zero fields of the
	// nested configs take their package defaults.
	Config struct {
		Cache bcache.Config
		Pages kalloc.Config
		// LogLevel is applied to [klog] by [Boot].
		// The zero value disables logging.
		LogLevel klog.Level
	}
	// Kernel owns the buffer cache and the page allocator.
	// Constructed by [Boot].
	Kernel struct {
		Cache *bcache.Cache
		Pages *kalloc.Allocator
	}
)

// DefaultConfig returns the stock sizes: 30 buffers in 13 buckets of
// 1 KiB blocks, and 128 MiB of RAM at 0x80000000 split across 8 processors.
func DefaultConfig() Config {
	return Config{
		Cache: bcache.Config{
			Buffers:   bcache.DefaultBuffers,
			Buckets:   bcache.DefaultBuckets,
			BlockSize: bcache.DefaultBlockSize,
		},
		Pages: kalloc.Config{
			CPUs:     kalloc.DefaultCPUs,
			Base:     kalloc.DefaultBase,
			Size:     kalloc.DefaultSize,
			Reserved: kalloc.DefaultReserved,
		},
		LogLevel: klog.LevelError,
	}
}

// Boot sets the log level and builds both managers.
// Cache misses are served by driver.
func Boot(cfg Config, driver disk.Driver) (*Kernel, error) {
	if driver == nil {
		return nil, configError("nil disk driver")
	}
	if cfg.LogLevel < klog.LevelNone || cfg.LogLevel > klog.LevelDebug {
		return nil, configError("unknown log level %s", cfg.LogLevel)
	}
	klog.SetLevel(cfg.LogLevel)
	cache, err := bcache.New(driver, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("buffer cache: %w", err)
	}
	pages, err := kalloc.New(cfg.Pages)
	if err != nil {
		return nil, fmt.Errorf("page allocator: %w", err)
	}
	free := uint64(pages.Total()) * kalloc.PageSize
	klog.Info("boot: %d-byte blocks, %s of pages on %d cpus",
		cache.BlockSize(), humanize.IBytes(free), pages.CPUs())
	return &Kernel{Cache: cache, Pages: pages}, nil
}

// Close releases the memory behind the page allocator.
// Calling it more than once has no further effect.
func (k *Kernel) Close() error { return k.Pages.Close() }
