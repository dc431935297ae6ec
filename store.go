package rowintern

import (
	"context"
	"errors"
	"sync/atomic"
)

// store is the shared engine behind [WideStore] and [ShortStore] (§2: "two
// variants are specified together because they share a design"). It is
// addressed purely in terms of (row, index) pairs; packing those into a
// wire-format handle is the job of the thin wrappers in wide.go/short.go.
type store struct {
	v variant

	br broker

	// bitWidth, hashMask, rows and locks are all owned exclusively by the
	// enlargement engine during a vertical resize (broker write-access);
	// otherwise they are read under a storage read-lease. Go's memory
	// model guarantees happens-before via the broker's RWMutex, so no
	// extra atomics are needed on these fields themselves.
	bitWidth int
	hashMask uint32
	rows     []*row
	locks    []*rowLock

	// count is incremented under a row's write lock but only a storage
	// read-lease, so concurrent inserts into different rows can race on
	// it: it is atomic rather than a plain int.
	count atomic.Int64
}

func newStore(v variant, bitWidth int) *store {
	bitWidth = clampBitWidth(bitWidth, v)
	rowCount := 1 << uint(bitWidth)

	s := &store{
		v:        v,
		bitWidth: bitWidth,
		hashMask: uint32(1)<<uint(bitWidth) - 1,
		rows:     make([]*row, rowCount),
		locks:    make([]*rowLock, rowCount),
	}

	for i := range s.locks {
		s.locks[i] = newRowLock()
	}

	// Row 0, slot 0 is the permanent null sentinel (§3 invariant 1).
	// It has fingerprint (0, 0), so its handex bit pattern never has a
	// set bit that vertical enlargement could split on: it never moves.
	sentinel := newRow(1)
	sentinel.fill = 1
	s.rows[0] = sentinel

	return s
}

// candidateRows returns the handex to probe, in the order Find and Add
// must consider them: the primary row first, then (for a Short store once
// its row-threshold has reached 256, i.e. bitWidth is at its maximum) the
// three alternate rows from §4.C step 4, in the tie-break order the spec
// mandates (primary, r2, r3, r4).
func (s *store) candidateRows(h32 uint32) []int {
	row := h32 & s.hashMask
	primary := int(row)

	threshold := s.v.rowThreshold(s.bitWidth)
	if !s.v.altRowOverflow || threshold < 256 {
		return []int{primary}
	}

	mask := s.hashMask
	r2 := (^row) & mask
	r3 := ((row << 12) | (row >> 12)) & mask
	r4 := (^r3) & mask

	return []int{primary, int(r2), int(r3), int(r4)}
}

// findInRow runs the signature-scan-then-equality-check at the heart of
// Find (§4.C steps 3): scan signatures for S8 candidates, then test each
// candidate's value for equality in ascending index order.
func findInRow(row *row, s8 byte, v Value) (int, bool) {
	if row == nil {
		return 0, false
	}

	for _, idx := range scanSignatures(row.sigs[:row.fill], s8) {
		candidate := row.values[idx]
		if candidate == nil {
			continue // a hole left by vertical enlargement
		}

		if candidate.Equal(v) {
			return idx, true
		}
	}

	return 0, false
}

// find implements §4.C's Find algorithm across all candidate rows for a
// fingerprint, without acquiring any write locks.
func (s *store) find(ctx context.Context, h32 uint32, s8 byte, v Value) (row, index int, found bool, err error) {
	s.br.acquireRead()
	defer s.br.releaseRead()

	for _, rIdx := range s.candidateRows(h32) {
		lock := s.locks[rIdx]
		if lockErr := lock.lockRead(ctx); lockErr != nil {
			return 0, 0, false, lockErr
		}

		idx, ok := findInRow(s.rows[rIdx], s8, v)
		lock.unlockRead()

		if ok {
			return rIdx, idx, true, nil
		}
	}

	return 0, 0, false, nil
}

// errRetryVertical signals internally that the primary candidate row is
// full and the store (a Wide store, or a Short store below its maximum bit
// width) must grow vertically and retry. It never escapes add.
var errRetryVertical = errors.New("rowintern: internal retry after vertical enlargement")

// add implements §4.G's Add operation: collapse-under-lock dedup, then
// allocate into the first candidate row with room, growing horizontally
// or vertically as needed. For a Short store at maximum bit width with
// all four candidate rows full, it returns [ErrOutOfCapacity].
func (s *store) add(ctx context.Context, v Value) (row, index int, err error) {
	h32, s8 := hash(v)

	for {
		row, index, err = s.tryAdd(ctx, h32, s8, v)
		if !errors.Is(err, errRetryVertical) {
			return row, index, err
		}

		if growErr := s.growVertical(ctx); growErr != nil {
			return 0, 0, growErr
		}
	}
}

func (s *store) tryAdd(ctx context.Context, h32 uint32, s8 byte, v Value) (int, int, error) {
	s.br.acquireRead()
	defer s.br.releaseRead()

	candidates := s.candidateRows(h32)

	// Phase 1: look for an existing match across every candidate row
	// before taking any write lock, per §4.G "run Find-equivalent under
	// the lock to collapse races" — the authoritative check happens again
	// under the write lock below, this is just the common-case fast path.
	for _, rIdx := range candidates {
		lock := s.locks[rIdx]
		if err := lock.lockRead(ctx); err != nil {
			return 0, 0, err
		}

		idx, ok := findInRow(s.rows[rIdx], s8, v)
		lock.unlockRead()

		if ok {
			return rIdx, idx, nil
		}
	}

	threshold := s.v.rowThreshold(s.bitWidth)

	// Phase 2: insert into the first candidate row with room.
	for ci, rIdx := range candidates {
		lock := s.locks[rIdx]
		if err := lock.lockWrite(ctx); err != nil {
			return 0, 0, err
		}

		r := s.rows[rIdx]
		if r == nil {
			r = newRow(s.v.initialRowCapacity(s.bitWidth))
			s.rows[rIdx] = r
		}

		// Re-check under the write lock: another writer may have added
		// this exact value between phase 1 and now.
		if idx, ok := findInRow(r, s8, v); ok {
			lock.unlockWrite()
			return rIdx, idx, nil
		}

		if r.fill < threshold {
			if r.fill >= r.capacity() {
				r.growCapacity(threshold)
			}

			idx := r.allocSlot()
			r.values[idx] = v
			r.sigs[idx] = s8
			r.hashes[idx] = h32
			s.count.Add(1)

			lock.unlockWrite()

			return rIdx, idx, nil
		}

		lock.unlockWrite()

		// Primary row is full. A Wide store (or a Short store not yet at
		// its maximum bit width) grows vertically and retries; a Short
		// store already at its maximum bit width falls through to try
		// the next alternate row instead.
		if ci == 0 && !(s.v.altRowOverflow && s.bitWidth == s.v.maxBitWidth) {
			return 0, 0, errRetryVertical
		}
	}

	return 0, 0, ErrOutOfCapacity
}

// get implements §4.G's Get operation for a decomposed (row, index) pair.
// It returns (nil, false) for any handle whose row exceeds the current
// row count or whose index exceeds that row's fill — the "tolerant
// variant" of InvalidHandle that §7 permits.
func (s *store) get(ctx context.Context, rowIdx, index int) (Value, bool, error) {
	s.br.acquireRead()
	defer s.br.releaseRead()

	if rowIdx < 0 || rowIdx >= len(s.rows) {
		return nil, false, nil
	}

	lock := s.locks[rowIdx]
	if err := lock.lockRead(ctx); err != nil {
		return nil, false, err
	}
	defer lock.unlockRead()

	r := s.rows[rowIdx]
	if r == nil {
		return nil, false, nil
	}

	if index < 0 || index >= r.fill {
		return nil, false, nil
	}

	v := r.values[index]

	return v, v != nil, nil
}

func (s *store) countValues() int64 {
	s.br.acquireRead()
	defer s.br.releaseRead()

	return s.count.Load()
}

func (s *store) currentBitWidth() int {
	s.br.acquireRead()
	defer s.br.releaseRead()

	return s.bitWidth
}

// stats is the observability snapshot described in SPEC_FULL.md's
// External Interfaces expansion.
func (s *store) stats() StoreStats {
	s.br.acquireRead()
	defer s.br.releaseRead()

	st := StoreStats{
		BitWidth: s.bitWidth,
		RowCount: len(s.rows),
		Count:    s.count.Load(),
	}

	for _, r := range s.rows {
		if r == nil {
			continue
		}

		if r.fill > st.MaxRowFill {
			st.MaxRowFill = r.fill
		}
	}

	return st
}

// StoreStats reports point-in-time observability data about a store.
type StoreStats struct {
	BitWidth   int
	RowCount   int
	Count      int64
	MaxRowFill int
}
