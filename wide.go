package rowintern

import "context"

// WideHandle is a packed (row, index) pair addressing a value in a
// [WideStore]. The zero value is the null handle (§3 invariant 1).
type WideHandle uint64

const wideIndexBits = 32

func packWideHandle(row, index int) WideHandle {
	return WideHandle(uint64(row)<<wideIndexBits | uint64(uint32(index)))
}

func (h WideHandle) split() (row, index int) {
	return int(h >> wideIndexBits), int(uint32(h))
}

// IsNull reports whether h is the reserved null handle.
func (h WideHandle) IsNull() bool { return h == 0 }

// WideStore is the 64-bit-handle variant described in §2 and §4.A: its
// bit width ranges over [8,31] and every row grows independently up to
// rowThreshold(bitWidth) = bitWidth^2, with no alternate-row overflow.
type WideStore struct {
	s *store
}

// NewWide creates a Wide store with the given initial bit width, silently
// clamped into [8,31] per §6.
func NewWide(bitWidth int) *WideStore {
	return &WideStore{s: newStore(wideVariant, bitWidth)}
}

// Add interns v, returning the handle that already denotes it if present,
// or a freshly allocated one otherwise. A nil Value always returns the
// null handle without touching any row.
func (w *WideStore) Add(v Value) (WideHandle, error) {
	return w.AddContext(context.Background(), v)
}

// AddContext is Add with a cancellable context governing lock waits.
func (w *WideStore) AddContext(ctx context.Context, v Value) (WideHandle, error) {
	if v == nil {
		return 0, nil
	}

	row, index, err := w.s.add(ctx, v)
	if err != nil {
		return 0, err
	}

	return packWideHandle(row, index), nil
}

// Find reports the handle already denoting v, if any, without inserting.
func (w *WideStore) Find(v Value) (WideHandle, bool, error) {
	return w.FindContext(context.Background(), v)
}

// FindContext is Find with a cancellable context governing lock waits.
func (w *WideStore) FindContext(ctx context.Context, v Value) (WideHandle, bool, error) {
	if v == nil {
		return 0, false, nil
	}

	h32, s8 := hash(v)

	row, index, found, err := w.s.find(ctx, h32, s8, v)
	if err != nil || !found {
		return 0, false, err
	}

	return packWideHandle(row, index), true, nil
}

// Contains reports whether v has already been interned.
func (w *WideStore) Contains(v Value) (bool, error) {
	_, ok, err := w.Find(v)
	return ok, err
}

// Get resolves a handle back to its value. The null handle always
// resolves to (nil, true). An unrecognized handle resolves to (nil,
// false) rather than an error, per §7's tolerant-Get guidance.
func (w *WideStore) Get(h WideHandle) (Value, bool, error) {
	return w.GetContext(context.Background(), h)
}

// GetContext is Get with a cancellable context governing lock waits.
func (w *WideStore) GetContext(ctx context.Context, h WideHandle) (Value, bool, error) {
	if h.IsNull() {
		return nil, true, nil
	}

	row, index := h.split()

	return w.s.get(ctx, row, index)
}

// Count returns the number of distinct non-null values currently interned.
func (w *WideStore) Count() int64 { return w.s.countValues() }

// BitWidth returns the store's current bit width.
func (w *WideStore) BitWidth() int { return w.s.currentBitWidth() }

// Stats returns a point-in-time observability snapshot.
func (w *WideStore) Stats() StoreStats { return w.s.stats() }
