// Package kcore assembles the two shared resource managers of a small
// teaching kernel: a [bcache.Cache] of disk blocks and a [kalloc.Allocator]
// of physical pages.
//
// Both managers split their state into independently locked partitions
// so that goroutines working on unrelated blocks or processors rarely
// contend, and both fall back to taking from another partition when
// their own is exhausted.
//
// Glossary:
//
//   - Buffer slot
//
//     A fixed-size in-memory copy of one disk block, identified by
//     (device, block number). See [bcache.Buf].
//
//   - Bucket
//
//     One of the hash partitions of the buffer cache, with its own lock
//     and its own recency order.
//
//   - Partition
//
//     One processor's free list of physical pages, with its own lock.
//
//   - Frame
//
//     A page-aligned physical address. See [kalloc.Frame].
//
//   - Pin
//
//     A reference that keeps a cached block from being recycled without
//     holding its content lock.
//
//   - Work stealing
//
//     Taking a free resource from another partition when the local one
//     has none.
//
// Failure model:
//
//   - Misuse of either manager (releasing a buffer that is not held,
//     freeing a misaligned page, and so on) panics with a [*fault.Fatal]
//     wrapping [fault.ErrInvariant].
//
//   - Running out of pages is an ordinary [kalloc.ErrNoMemory] error.
//     Running out of buffers is an ordinary [bcache.ErrNoBuffers] from
//     [bcache.Cache.TryRead] and a fatal fault from [bcache.Cache.Read].
//
// Build with `-tags kcore_debug` to enable the expensive consistency
// checks, such as the double free walk of the page allocator.
package kcore
