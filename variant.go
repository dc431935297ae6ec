package rowintern

// variant captures everything that differs between the Wide and Short
// stores: bit-width range, the row-capacity threshold formula, the
// initial per-row capacity, and whether the 4-way alternate-row overflow
// scheme (§4.C step 4, §4.F "Short-store overflow fallback") applies.
type variant struct {
	minBitWidth     int
	maxBitWidth     int
	defaultBitWidth int

	// rowThreshold computes rowThreshold(bitWidth) per §3 invariant 4.
	rowThreshold func(bitWidth int) int

	// initialRowCapacity computes a row's capacity on first allocation.
	initialRowCapacity func(bitWidth int) int

	// altRowOverflow enables the Short-store's 4-way alternate-row scheme.
	altRowOverflow bool
}

// clampBitWidth resolves the bit width a new store should start at: zero
// (or negative) selects the variant's default, and anything outside
// [minBitWidth, maxBitWidth] is silently clamped into range per §6.
func clampBitWidth(bitWidth int, v variant) int {
	if bitWidth <= 0 {
		bitWidth = v.defaultBitWidth
	}

	if bitWidth < v.minBitWidth {
		return v.minBitWidth
	}

	if bitWidth > v.maxBitWidth {
		return v.maxBitWidth
	}

	return bitWidth
}

var wideVariant = variant{
	minBitWidth:     8,
	maxBitWidth:     31,
	defaultBitWidth: 4, // silently clamped up to minBitWidth (8) per §6
	rowThreshold: func(bitWidth int) int {
		return bitWidth * bitWidth
	},
	initialRowCapacity: func(bitWidth int) int {
		t := bitWidth * bitWidth
		if t/2 < 1 {
			return 1
		}

		return t / 2
	},
	altRowOverflow: false,
}

var shortVariant = variant{
	minBitWidth:     9,
	maxBitWidth:     24,
	defaultBitWidth: 10,
	rowThreshold: func(bitWidth int) int {
		d := bitWidth - 8
		return d * d
	},
	initialRowCapacity: func(bitWidth int) int {
		return 1
	},
	altRowOverflow: true,
}
