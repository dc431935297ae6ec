package rowintern

import "context"

// ShortHandle is a packed (row, index) pair addressing a value in a
// [ShortStore]. The zero value is the null handle (§3 invariant 1).
type ShortHandle uint32

const shortIndexBits = 8

func packShortHandle(row, index int) ShortHandle {
	return ShortHandle(uint32(row)<<shortIndexBits | uint32(uint8(index)))
}

func (h ShortHandle) split() (row, index int) {
	return int(h >> shortIndexBits), int(uint8(h))
}

// IsNull reports whether h is the reserved null handle.
func (h ShortHandle) IsNull() bool { return h == 0 }

// ShortStore is the 32-bit-handle variant described in §2 and §4.A: its
// bit width ranges over [9,24], rowThreshold(bitWidth) = (bitWidth-8)^2,
// and once that threshold reaches 256 at the maximum bit width, a row
// that overflows falls back to three alternate rows (§4.C step 4) before
// reporting [ErrOutOfCapacity].
type ShortStore struct {
	s *store
}

// NewShort creates a Short store with the given initial bit width,
// silently clamped into [9,24] per §6.
func NewShort(bitWidth int) *ShortStore {
	return &ShortStore{s: newStore(shortVariant, bitWidth)}
}

// Add interns v, returning the handle that already denotes it if present,
// or a freshly allocated one otherwise. A nil Value always returns the
// null handle without touching any row.
func (sh *ShortStore) Add(v Value) (ShortHandle, error) {
	return sh.AddContext(context.Background(), v)
}

// AddContext is Add with a cancellable context governing lock waits.
func (sh *ShortStore) AddContext(ctx context.Context, v Value) (ShortHandle, error) {
	if v == nil {
		return 0, nil
	}

	row, index, err := sh.s.add(ctx, v)
	if err != nil {
		return 0, err
	}

	return packShortHandle(row, index), nil
}

// Find reports the handle already denoting v, if any, without inserting.
func (sh *ShortStore) Find(v Value) (ShortHandle, bool, error) {
	return sh.FindContext(context.Background(), v)
}

// FindContext is Find with a cancellable context governing lock waits.
func (sh *ShortStore) FindContext(ctx context.Context, v Value) (ShortHandle, bool, error) {
	if v == nil {
		return 0, false, nil
	}

	h32, s8 := hash(v)

	row, index, found, err := sh.s.find(ctx, h32, s8, v)
	if err != nil || !found {
		return 0, false, err
	}

	return packShortHandle(row, index), true, nil
}

// Contains reports whether v has already been interned.
func (sh *ShortStore) Contains(v Value) (bool, error) {
	_, ok, err := sh.Find(v)
	return ok, err
}

// Get resolves a handle back to its value. The null handle always
// resolves to (nil, true). An unrecognized handle resolves to (nil,
// false) rather than an error, per §7's tolerant-Get guidance.
func (sh *ShortStore) Get(h ShortHandle) (Value, bool, error) {
	return sh.GetContext(context.Background(), h)
}

// GetContext is Get with a cancellable context governing lock waits.
func (sh *ShortStore) GetContext(ctx context.Context, h ShortHandle) (Value, bool, error) {
	if h.IsNull() {
		return nil, true, nil
	}

	row, index := h.split()

	return sh.s.get(ctx, row, index)
}

// Count returns the number of distinct non-null values currently interned.
func (sh *ShortStore) Count() int64 { return sh.s.countValues() }

// BitWidth returns the store's current bit width.
func (sh *ShortStore) BitWidth() int { return sh.s.currentBitWidth() }

// Stats returns a point-in-time observability snapshot.
func (sh *ShortStore) Stats() StoreStats { return sh.s.stats() }
