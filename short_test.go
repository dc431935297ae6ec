package rowintern_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-data/rowintern"
)

func Test_ShortStore_Add_DedupesIdenticalValues(t *testing.T) {
	t.Parallel()

	s := rowintern.NewShort(10)

	h1, err := s.Add(rowintern.StringValue("dup"))
	require.NoError(t, err)

	h2, err := s.Add(rowintern.StringValue("dup"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, int64(1), s.Count())
}

func Test_ShortStore_Add_Nil_ReturnsNullHandle(t *testing.T) {
	t.Parallel()

	s := rowintern.NewShort(10)

	h, err := s.Add(nil)
	require.NoError(t, err)
	assert.True(t, h.IsNull())

	v, ok, err := s.Get(h)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, v)
}

func Test_ShortStore_Get_RoundTripsThroughAddForManyValues(t *testing.T) {
	t.Parallel()

	s := rowintern.NewShort(10)

	handles := make(map[string]rowintern.ShortHandle)

	for i := 0; i < 300; i++ {
		value := rowintern.StringValue(fmt.Sprintf("short-%d", i))

		h, err := s.Add(value)
		require.NoError(t, err)

		handles[string(value)] = h
	}

	for str, h := range handles {
		v, ok, err := s.Get(h)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, rowintern.StringValue(str), v)
	}

	assert.Equal(t, int64(300), s.Count())
}

func Test_ShortStore_BitWidth_ClampedIntoRange(t *testing.T) {
	t.Parallel()

	tooLow := rowintern.NewShort(1)
	assert.Equal(t, 9, tooLow.BitWidth())

	tooHigh := rowintern.NewShort(999)
	assert.Equal(t, 24, tooHigh.BitWidth())

	usingDefault := rowintern.NewShort(0)
	assert.Equal(t, 10, usingDefault.BitWidth())
}

func Test_ShortStore_VerticalEnlargement_PreservesExistingHandles(t *testing.T) {
	t.Parallel()

	s := rowintern.NewShort(9)

	type entry struct {
		value  rowintern.StringValue
		handle rowintern.ShortHandle
	}

	var entries []entry

	startWidth := s.BitWidth()

	for i := 0; i < 500; i++ {
		value := rowintern.StringValue(fmt.Sprintf("short-enlarge-%d", i))

		h, err := s.Add(value)
		require.NoError(t, err)

		entries = append(entries, entry{value: value, handle: h})
	}

	assert.GreaterOrEqual(t, s.BitWidth(), startWidth)

	for _, e := range entries {
		v, ok, err := s.Get(e.handle)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, e.value, v)
	}
}

func Test_ShortStore_Stats(t *testing.T) {
	t.Parallel()

	s := rowintern.NewShort(10)

	for i := 0; i < 5; i++ {
		_, err := s.Add(rowintern.StringValue(fmt.Sprintf("stat-%d", i)))
		require.NoError(t, err)
	}

	stats := s.Stats()
	assert.Equal(t, int64(5), stats.Count)
	assert.Equal(t, s.BitWidth(), stats.BitWidth)
}
