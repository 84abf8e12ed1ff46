package bcache

const (
	// DefaultBuffers is the size of the buffer pool (NBUF).
	DefaultBuffers = 30
	// DefaultBuckets is the number of hash buckets.
	DefaultBuckets = 13
	// DefaultBlockSize is the size of one disk block in bytes (BSIZE).
	DefaultBlockSize = 1024
)

// Config sizes a [Cache]. Zero fields take the defaults above.
type Config struct {
	// Buffers is the fixed number of buffer slots.
	Buffers int
	// Buckets is the number of independently locked
	// hash buckets the slots are spread across.
	Buckets int
	// BlockSize is the number of bytes each slot holds.
	BlockSize int
}

func (cfg Config) withDefaults() Config {
	if cfg.Buffers == 0 {
		cfg.Buffers = DefaultBuffers
	}
	if cfg.Buckets == 0 {
		cfg.Buckets = DefaultBuckets
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	return cfg
}

func (cfg Config) validate() error {
	for _, field := range []struct {
		name  string
		value int
	}{
		{"Buffers", cfg.Buffers},
		{"Buckets", cfg.Buckets},
		{"BlockSize", cfg.BlockSize},
	} {
		if field.value < 1 {
			return configError(field.name, field.value)
		}
	}
	return nil
}
