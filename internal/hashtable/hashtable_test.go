package hashtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBucketsFor(t *testing.T) {
	cases := map[int]int{
		0:  2,
		1:  2,
		2:  3,
		10: 11,
		11: 13,
		40: 41,
		41: 43,
	}
	for expected, want := range cases {
		require.Equal(t, want, BucketsFor(expected), "BucketsFor(%d)", expected)
	}
}

func TestTablePutGetOverwrite(t *testing.T) {
	tbl := New[int, string](7, IntHash)

	tbl.Put(1, "a")
	tbl.Put(8, "b") // same bucket as 1
	tbl.Put(1, "c")

	require.Equal(t, 2, tbl.Len())

	v, ok := tbl.Get(1)
	require.True(t, ok)
	require.Equal(t, "c", v)

	v, ok = tbl.Get(8)
	require.True(t, ok)
	require.Equal(t, "b", v)

	_, ok = tbl.Get(15)
	require.False(t, ok)
}

func TestTableUpdateInPlace(t *testing.T) {
	type rec struct{ n int }
	tbl := New[int, rec](3, IntHash)
	tbl.Put(4, rec{n: 1})

	require.NoError(t, tbl.Update(4, func(r *rec) { r.n++ }))
	got, _ := tbl.Get(4)
	require.Equal(t, 2, got.n)

	require.ErrorIs(t, tbl.Update(5, func(r *rec) {}), ErrNotFound)
}

func TestTableDelete(t *testing.T) {
	tbl := New[int, int](2, IntHash)
	for i := 0; i < 6; i++ {
		tbl.Put(i, i*i)
	}

	require.True(t, tbl.Delete(2))
	require.False(t, tbl.Delete(2))
	require.False(t, tbl.Contains(2))
	require.True(t, tbl.Contains(4))
	require.Equal(t, 5, tbl.Len())
}

func TestTableAllBucketOrder(t *testing.T) {
	tbl := New[int, int](5, IntHash)
	for _, k := range []int{7, 3, 5, 1} {
		tbl.Put(k, k)
	}

	var keys []int
	for k := range tbl.All() {
		keys = append(keys, k)
	}
	// buckets: 0:[5] 1:[1] 2:[7] 3:[3]
	require.Equal(t, []int{5, 1, 7, 3}, keys)
}

func TestTableHeavyCollision(t *testing.T) {
	tbl := New[int, int](1, IntHash)
	for i := 1; i <= 50; i++ {
		tbl.Put(i, i)
	}
	require.Equal(t, 50, tbl.Len())
	require.InDelta(t, 50.0, tbl.LoadFactor(), 1e-9)
	for i := 1; i <= 50; i++ {
		v, ok := tbl.Get(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestStringHashStable(t *testing.T) {
	tbl := New[string, float64](BucketsFor(3), StringHash)
	tbl.Put("HUB", 0)
	tbl.Put("A", 1.5)
	v, ok := tbl.Get("A")
	require.True(t, ok)
	require.Equal(t, 1.5, v)
	require.Equal(t, StringHash("A"), StringHash("A"))
}
