package rowintern

// row is a row in the store: three parallel sequences of equal logical
// length fill, plus a stack of vacated indices reserved for reuse.
//
// A row is never compacted. Indices are only ever (a) appended past the
// current fill, (b) reused from the free stack, or (c) vacated (during
// vertical enlargement) and pushed onto the free stack — never shifted.
// This is what lets a handle's index component stay valid forever: see
// grow.go.
type row struct {
	values []Value
	sigs   []byte
	// hashes caches each slot's H32 so vertical enlargement never has to
	// re-encode a value to decide whether it moves (§4.F: "an explicit
	// per-slot copy is simpler and preferred").
	hashes []uint32

	fill int

	// free is an explicit stack of vacated indices, popped from the end.
	// Kept separate from fill (unlike the source design's free[0]-as-length
	// trick, which the spec calls out as confusing two different things).
	free []int32
}

func newRow(initialCapacity int) *row {
	if initialCapacity < 1 {
		initialCapacity = 1
	}

	return &row{
		values: make([]Value, initialCapacity),
		sigs:   make([]byte, initialCapacity),
		hashes: make([]uint32, initialCapacity),
	}
}

func (r *row) capacity() int {
	return len(r.values)
}

// isqrt returns floor(sqrt(n)) for n >= 0 using integer refinement, so the
// square-progression growth formula never picks up float rounding error
// at the sizes this package deals in.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}

	x := n
	y := (x + 1) / 2

	for y < x {
		x = y
		y = (x + n/x) / 2
	}

	return x
}

// nextRowCapacity implements the square-progression growth step from §4.B:
// next = (floor(sqrt(cur))+1)^2.
func nextRowCapacity(cur int) int {
	r := isqrt(cur)
	return (r + 1) * (r + 1)
}

// growCapacity grows the row's backing arrays in place (by reallocating
// and copying the live prefix) toward the next square-progression size,
// never past threshold. It is a no-op if already at or above threshold.
func (r *row) growCapacity(threshold int) {
	cur := len(r.values)
	if cur >= threshold {
		return
	}

	next := nextRowCapacity(cur)
	if next > threshold {
		next = threshold
	}

	if next <= cur {
		return
	}

	newValues := make([]Value, next)
	newSigs := make([]byte, next)
	newHashes := make([]uint32, next)

	copy(newValues, r.values[:r.fill])
	copy(newSigs, r.sigs[:r.fill])
	copy(newHashes, r.hashes[:r.fill])

	r.values = newValues
	r.sigs = newSigs
	r.hashes = newHashes
}

// allocSlot returns an index to write a new value into: a reused index
// from the free stack if one exists (LIFO pop from the end, per §9's
// guidance to never use the index value as a list position), else the
// next index past fill. Callers must ensure capacity() > fill before
// calling allocSlot in the append case.
func (r *row) allocSlot() int {
	if n := len(r.free); n > 0 {
		idx := int(r.free[n-1])
		r.free = r.free[:n-1]

		return idx
	}

	idx := r.fill
	r.fill++

	return idx
}

// vacate clears slot idx (marking it a hole) and pushes it onto the free
// stack. Used only by vertical enlargement when a value moves to a new
// row (§4.F step 4).
func (r *row) vacate(idx int) {
	r.values[idx] = nil
	r.sigs[idx] = 0
	r.hashes[idx] = 0
	r.free = append(r.free, int32(idx))
}

// appendAtIndex places a value at idx, which must be >= fill. Any indices
// skipped between the current fill and idx are holes: they are pushed
// onto the free stack so that later inserts into this row can reuse them,
// per §9's "pre-populate the destination row's free-index list with the
// skipped indices". Used only by vertical enlargement, which always calls
// this with strictly ascending idx values for a given destination row.
func (r *row) appendAtIndex(idx int, v Value, sig byte, h uint32, threshold int) {
	if idx+1 > len(r.values) {
		r.growToAtLeast(idx+1, threshold)
	}

	for r.fill < idx {
		r.free = append(r.free, int32(r.fill))
		r.fill++
	}

	r.values[idx] = v
	r.sigs[idx] = sig
	r.hashes[idx] = h
	r.fill = idx + 1
}

// growToAtLeast grows the row directly to at least n slots (not via the
// square-progression step-by-step path); used when vertical enlargement
// needs to place a value at an index beyond the row's lazily-allocated
// starting capacity.
func (r *row) growToAtLeast(n int, threshold int) {
	if n > threshold {
		n = threshold
	}

	if n <= len(r.values) {
		return
	}

	newValues := make([]Value, n)
	newSigs := make([]byte, n)
	newHashes := make([]uint32, n)

	copy(newValues, r.values[:r.fill])
	copy(newSigs, r.sigs[:r.fill])
	copy(newHashes, r.hashes[:r.fill])

	r.values = newValues
	r.sigs = newSigs
	r.hashes = newHashes
}
