package disk_test

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/djdv/go-kcore/disk"
	"github.com/stretchr/testify/require"
)

const blockSize = 512

func TestMem(t *testing.T) {
	t.Run("unwritten reads zero", memUnwritten)
	t.Run("round trip", memRoundTrip)
	t.Run("injected failure", memFailure)
	t.Run("wrong size", memWrongSize)
}

func TestFile(t *testing.T) {
	t.Run("round trip", fileRoundTrip)
	t.Run("past end", filePastEnd)
	t.Run("unattached", fileUnattached)
	t.Run("double attach", fileDoubleAttach)
}

func memUnwritten(t *testing.T) {
	t.Parallel()
	var (
		mem  = disk.NewMem(blockSize)
		addr = disk.Addr{Dev: 1, Block: 3}
		data = bytes.Repeat([]byte{0xff}, blockSize)
	)
	require.NoError(t, mem.Transfer(addr, data, false))
	require.Equal(t, make([]byte, blockSize), data)
	require.EqualValues(t, 1, mem.Reads())
	require.EqualValues(t, 1, mem.ReadsOf(addr))
	require.Zero(t, mem.ReadsOf(disk.Addr{Dev: 1, Block: 4}))
}

func memRoundTrip(t *testing.T) {
	t.Parallel()
	var (
		mem  = disk.NewMem(blockSize)
		addr = disk.Addr{Dev: 1, Block: 9}
		want = patterned(9)
	)
	require.NoError(t, mem.Transfer(addr, want, true))
	want[0] ^= 0xff // Device keeps its own copy.
	got := make([]byte, blockSize)
	require.NoError(t, mem.Transfer(addr, got, false))
	require.Equal(t, patterned(9), got)
	require.Equal(t, patterned(9), mem.Load(addr))
	require.EqualValues(t, 1, mem.Writes())
}

func memFailure(t *testing.T) {
	t.Parallel()
	var (
		mem   = disk.NewMem(blockSize)
		addr  = disk.Addr{Dev: 2, Block: 1}
		cause = errors.New("bad sector")
		data  = make([]byte, blockSize)
	)
	mem.Fail(addr, cause)
	err := mem.Transfer(addr, data, false)
	require.ErrorIs(t, err, disk.ErrIO)
	require.ErrorIs(t, err, cause)
	mem.Fail(addr, nil)
	require.NoError(t, mem.Transfer(addr, data, false))
}

func memWrongSize(t *testing.T) {
	t.Parallel()
	mem := disk.NewMem(blockSize)
	err := mem.Transfer(disk.Addr{Dev: 1}, make([]byte, blockSize-1), false)
	require.ErrorIs(t, err, disk.ErrIO)
}

func newFile(t *testing.T, devs ...uint32) *disk.File {
	t.Helper()
	var (
		dir    = t.TempDir()
		driver = disk.NewFile(blockSize)
	)
	for _, dev := range devs {
		path := filepath.Join(dir, fmt.Sprintf("dev%d.img", dev))
		require.NoError(t, driver.Attach(dev, path))
	}
	t.Cleanup(func() { require.NoError(t, driver.Close()) })
	return driver
}

func fileRoundTrip(t *testing.T) {
	t.Parallel()
	var (
		driver = newFile(t, 1)
		addr   = disk.Addr{Dev: 1, Block: 5}
		got    = make([]byte, blockSize)
	)
	require.NoError(t, driver.Transfer(addr, patterned(5), true))
	require.NoError(t, driver.Sync())
	require.NoError(t, driver.Transfer(addr, got, false))
	require.Equal(t, patterned(5), got)
}

func filePastEnd(t *testing.T) {
	t.Parallel()
	var (
		driver = newFile(t, 1)
		got    = bytes.Repeat([]byte{7}, blockSize)
	)
	require.NoError(t, driver.Transfer(disk.Addr{Dev: 1, Block: 2}, patterned(2), true))
	require.NoError(t, driver.Transfer(disk.Addr{Dev: 1, Block: 40}, got, false))
	require.Equal(t, make([]byte, blockSize), got)
}

func fileUnattached(t *testing.T) {
	t.Parallel()
	driver := newFile(t, 1)
	err := driver.Transfer(disk.Addr{Dev: 2}, make([]byte, blockSize), false)
	require.ErrorIs(t, err, disk.ErrIO)
	require.ErrorIs(t, err, disk.ErrNoDevice)
}

func fileDoubleAttach(t *testing.T) {
	t.Parallel()
	driver := newFile(t, 1)
	require.Error(t, driver.Attach(1, filepath.Join(t.TempDir(), "again.img")))
}

func patterned(seed byte) []byte {
	data := make([]byte, blockSize)
	for i := range data {
		data[i] = seed + byte(i)
	}
	return data
}
