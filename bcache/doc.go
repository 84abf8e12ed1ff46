// Package bcache implements a [Cache] of disk blocks: a fixed pool of
// buffers that hold copies of recently used blocks and serialize access
// to each block's contents.
//
// The pool is split across hash buckets so that lookups of unrelated
// blocks do not contend for one lock.
//
// Glossary and invariants:
//
//   - Slot ([Buf])
//
//     One buffer of the pool. A slot's identity is the block it currently
//     holds; the slot itself is never freed, only recycled.
//
//   - Bucket
//
//     A circular list of slots guarded by a spin lock. A block always lives
//     in bucket Block % Buckets. Every slot is linked into exactly one
//     bucket, except while it is being moved between buckets, when it is
//     unreferenced and reachable from none.
//
//   - Reference count
//
//     The number of holders, waiters and pins of a slot. A referenced slot
//     is never recycled.
//
//   - Content lock
//
//     A sleeping lock held from [Cache.Read] until [Cache.Release]; its
//     holder alone may touch the block's bytes. A [Handle] is the proof of
//     holding it.
//
//   - Pin
//
//     A reference without the content lock. Keeps a block cached across
//     unrelated Read/Release cycles.
//
// Replacement:
//
//   - Within a bucket, slots are ordered by release: the slot whose count
//     dropped to zero most recently is at the front, and misses recycle from
//     the back. The approximation of global LRU is per bucket.
//
//   - When a bucket has no unreferenced slot, other buckets are searched in
//     index order and the first unreferenced slot found is moved over.
//     Only one bucket lock is held at a time; the decision to claim a slot
//     for a block is always made under that block's bucket lock, so a block
//     is never cached twice.
//
//   - If every slot is referenced, [Cache.Read] faults and
//     [Cache.TryRead] returns [ErrNoBuffers].
package bcache
