package rowintern

import "github.com/cespare/xxhash/v2"

// hash computes the fingerprint (H32, S8) for a value. It returns (0, 0)
// for nil, which is the encoding the null sentinel is defined to have.
//
// H32 is the low 32 bits of xxHash's 64-bit digest over the value's byte
// encoding (github.com/cespare/xxhash/v2, the pack-grounded stand-in for
// the spec's "xxHash32 recommended"; see DESIGN.md). S8 is a Pearson hash
// over the same bytes, used only as a secondary filter by the signature
// scanner — never load-bearing for correctness.
//
// hash is pure and holds no shared state, so it is trivially safe for
// concurrent use from any number of goroutines.
func hash(v Value) (h32 uint32, s8 uint8) {
	if v == nil {
		return 0, 0
	}

	var b []byte
	if sv, ok := v.(StringValue); ok {
		// Avoid the Bytes() interface call; this conversion yields the
		// same bytes StringValue.Bytes returns.
		b = []byte(sv)
	} else {
		b = v.Bytes()
	}

	return uint32(xxhash.Sum64(b)), pearson(b)
}

// pearsonTable is a fixed permutation of the byte space [0,256), used as
// the substitution table for the Pearson hash below. It is generated as a
// fixed affine map (i*167+53 mod 256); 167 is odd and therefore coprime to
// 256, which makes the map a bijection — any permutation works for
// Pearson hashing, this one avoids hand-transcribing a historical table.
var pearsonTable = func() (t [256]byte) {
	for i := range t {
		t[i] = byte((i*167 + 53) & 0xFF)
	}
	return t
}()

// pearson computes an 8-bit Pearson hash over data using pearsonTable.
func pearson(data []byte) byte {
	var h byte
	for _, c := range data {
		h = pearsonTable[h^c]
	}
	return h
}
