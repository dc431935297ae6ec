// Package rowintern provides a hash-indexed value interner.
//
// rowintern stores immutable values — strings or any caller-defined type
// implementing [Value] — and hands back a stable, compact integer handle
// for each one. Handles remain valid for the lifetime of the store,
// including across any number of internal growth operations. Looking a
// value back up from its handle is near-constant time.
//
// Two variants share the same design:
//
//   - [WideStore]: 64-bit handles, up to 2^31 rows.
//   - [ShortStore]: 32-bit handles, up to 2^24 rows, with a 4-way
//     alternate-row overflow scheme once its bit width is exhausted.
//
// # Basic Usage
//
//	store := rowintern.NewWide(8)
//	h, err := store.Add(rowintern.StringValue("hello"))
//	v, ok, err := store.Get(h)
//
// # Concurrency
//
// All operations ([WideStore.Add], [WideStore.Find], [WideStore.Contains],
// [WideStore.Get], [WideStore.Count]) are safe for concurrent use by
// multiple goroutines. Internally, a per-row reader/writer lock admits
// many concurrent readers or a single writer to a row, composed with a
// store-wide broker that excludes all row operations during the rare
// vertical enlargement (growing the number of rows). See [WideStore.AddContext]
// and friends for cancellable/deadline-bound variants.
//
// # Error Handling
//
// [ShortStore.Add] can return [ErrOutOfCapacity] once its bit width is
// maxed out and all four candidate rows for a handex are full. Context
// variants can return [ErrLockTimeout] if the caller's context is
// cancelled or its deadline elapses while waiting on a lock. Neither error
// leaves the store in a partially mutated state: every mutation is
// published under a single row's writer lock.
//
// # Non-goals
//
// rowintern does not serialize to disk, does not provide a CLI, does not
// reuse handles after removal (there is no removal), and does not allow
// mutating an interned value in place. Rebuild from scratch if you need
// compaction.
package rowintern
