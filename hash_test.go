package rowintern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Hash_Nil_IsZeroFingerprint(t *testing.T) {
	t.Parallel()

	h32, s8 := hash(nil)

	assert.Equal(t, uint32(0), h32)
	assert.Equal(t, uint8(0), s8)
}

func Test_Hash_IsDeterministic(t *testing.T) {
	t.Parallel()

	v := StringValue("the quick brown fox")

	h1, s1 := hash(v)
	h2, s2 := hash(v)

	assert.Equal(t, h1, h2)
	assert.Equal(t, s1, s2)
}

func Test_Hash_DifferentValues_UsuallyDifferentFingerprints(t *testing.T) {
	t.Parallel()

	a, _ := hash(StringValue("alpha"))
	b, _ := hash(StringValue("beta"))

	assert.NotEqual(t, a, b)
}

func Test_PearsonTable_IsPermutation(t *testing.T) {
	t.Parallel()

	var seen [256]bool
	for _, v := range pearsonTable {
		assert.False(t, seen[v], "value %d appears twice in pearsonTable", v)
		seen[v] = true
	}
}

// rawBytesValue is a minimal second Value implementation used to exercise
// the non-StringValue path through hash.
type rawBytesValue []byte

func (b rawBytesValue) Bytes() []byte { return b }

func (b rawBytesValue) Equal(other Value) bool {
	o, ok := other.(rawBytesValue)
	return ok && string(o) == string(b)
}

func Test_Hash_StringValueFastPath_MatchesGenericPath(t *testing.T) {
	t.Parallel()

	sv := StringValue("fast path")
	bv := rawBytesValue(sv.Bytes())

	h1, s1 := hash(sv)
	h2, s2 := hash(bv)

	assert.Equal(t, h1, h2)
	assert.Equal(t, s1, s2)
}
