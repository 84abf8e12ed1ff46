package disk

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Mem is a set of in-memory devices.
// Blocks that were never written read as zeros.
type Mem struct {
	blocks     *xsync.MapOf[Addr, []byte]
	failures   *xsync.MapOf[Addr, error]
	readCounts *xsync.MapOf[Addr, *xsync.Counter]
	reads      *xsync.Counter
	writes     *xsync.Counter
	blockSize  int
}

// NewMem creates an empty in-memory device set.
func NewMem(blockSize int) *Mem {
	return &Mem{
		blocks:     xsync.NewMapOf[Addr, []byte](),
		failures:   xsync.NewMapOf[Addr, error](),
		readCounts: xsync.NewMapOf[Addr, *xsync.Counter](),
		reads:      xsync.NewCounter(),
		writes:     xsync.NewCounter(),
		blockSize:  blockSize,
	}
}

// Transfer implements [Driver].
func (m *Mem) Transfer(addr Addr, data []byte, write bool) error {
	if len(data) != m.blockSize {
		return ioError(direction(write), addr,
			sizeError(len(data), m.blockSize))
	}
	if err, failing := m.failures.Load(addr); failing {
		return ioError(direction(write), addr, err)
	}
	if write {
		m.writes.Inc()
		m.blocks.Store(addr, append([]byte(nil), data...))
		return nil
	}
	m.reads.Inc()
	counter, _ := m.readCounts.LoadOrCompute(addr, xsync.NewCounter)
	counter.Inc()
	if stored, ok := m.blocks.Load(addr); ok {
		copy(data, stored)
	} else {
		clear(data)
	}
	return nil
}

// Store places contents directly on the device, bypassing counters.
func (m *Mem) Store(addr Addr, contents []byte) {
	block := make([]byte, m.blockSize)
	copy(block, contents)
	m.blocks.Store(addr, block)
}

// Load returns a copy of the block as the device currently holds it.
func (m *Mem) Load(addr Addr) []byte {
	block := make([]byte, m.blockSize)
	if stored, ok := m.blocks.Load(addr); ok {
		copy(block, stored)
	}
	return block
}

// Fail makes every later transfer of addr return err.
// A nil err clears the failure.
func (m *Mem) Fail(addr Addr, err error) {
	if err == nil {
		m.failures.Delete(addr)
		return
	}
	m.failures.Store(addr, err)
}

// Reads returns the number of completed block reads.
func (m *Mem) Reads() int64 { return m.reads.Value() }

// Writes returns the number of completed block writes.
func (m *Mem) Writes() int64 { return m.writes.Value() }

// ReadsOf returns how many times addr was read from the device.
func (m *Mem) ReadsOf(addr Addr) int64 {
	if counter, ok := m.readCounts.Load(addr); ok {
		return counter.Value()
	}
	return 0
}
