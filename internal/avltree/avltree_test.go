package avltree_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreyvit/logdex/internal/avltree"
)

func keys(t *avltree.Tree) []string {
	var out []string
	for e := range t.InOrder() {
		out = append(out, e.Key)
	}
	return out
}

func TestInsertLookup(t *testing.T) {
	var tr avltree.Tree
	require.True(t, tr.Insert("B", 10))
	require.True(t, tr.Insert("A", 20))
	require.True(t, tr.Insert("C", 30))

	off, ok := tr.Lookup("A")
	require.True(t, ok)
	require.EqualValues(t, 20, off)

	_, ok = tr.Lookup("Z")
	require.False(t, ok)

	require.Equal(t, []string{"A", "B", "C"}, keys(&tr))
}

func TestInsertDuplicateReplacesOffsetOnly(t *testing.T) {
	var tr avltree.Tree
	require.True(t, tr.Insert("K", 1))
	require.False(t, tr.Insert("K", 2))

	require.Equal(t, 1, tr.Len())
	off, ok := tr.Lookup("K")
	require.True(t, ok)
	require.EqualValues(t, 2, off)
}

func TestDeleteIdempotent(t *testing.T) {
	var tr avltree.Tree
	tr.Insert("K", 1)

	require.True(t, tr.Delete("K"))
	require.False(t, tr.Delete("K"))
	require.Equal(t, 0, tr.Len())
}

func TestDeleteTwoChildrenCopiesBothFields(t *testing.T) {
	var tr avltree.Tree
	for _, k := range []string{"D", "B", "F", "A", "C", "E", "G"} {
		tr.Insert(k, int64(k[0]))
	}

	require.True(t, tr.Delete("D")) // root, two children

	require.Equal(t, []string{"A", "B", "C", "E", "F", "G"}, keys(&tr))
	off, ok := tr.Lookup("E")
	require.True(t, ok)
	require.EqualValues(t, 'E', off)
}

func TestAtAndRange(t *testing.T) {
	var tr avltree.Tree
	want := []string{"A", "B", "C", "D", "E"}
	for i, k := range want {
		tr.Insert(k, int64(i))
	}

	for i, k := range want {
		e, err := tr.At(i)
		require.NoError(t, err)
		require.Equal(t, k, e.Key)
		require.EqualValues(t, i, e.Offset)
	}

	_, err := tr.At(len(want))
	require.ErrorIs(t, err, avltree.ErrOutOfRange)

	got := tr.Range(1, 3)
	require.Len(t, got, 3)
	require.Equal(t, []string{"B", "C", "D"}, []string{got[0].Key, got[1].Key, got[2].Key})

	require.Empty(t, tr.Range(len(want), 5))
	require.Empty(t, tr.Range(0, 0))

	tail := tr.Range(3, 10)
	require.Equal(t, []string{"D", "E"}, []string{tail[0].Key, tail[1].Key})
}

func TestRangeMatchesRepeatedAt(t *testing.T) {
	var tr avltree.Tree
	n := 200
	for i := 0; i < n; i++ {
		tr.Insert(fmt.Sprintf("k%04d", i), int64(i))
	}

	for _, start := range []int{0, 1, 50, 199, 200} {
		for _, limit := range []int{0, 1, 5, 1000} {
			viaRange := tr.Range(start, limit)

			var viaAt []avltree.Entry
			for i := start; i < start+limit && i < n; i++ {
				e, err := tr.At(i)
				require.NoError(t, err)
				viaAt = append(viaAt, e)
			}
			require.Equal(t, viaAt, viaRange)
		}
	}
}

func TestBulkLoadIndistinguishableFromInserts(t *testing.T) {
	var built avltree.Tree
	var entries []avltree.Entry
	for i := 0; i < 50; i++ {
		k := fmt.Sprintf("k%03d", i)
		built.Insert(k, int64(i))
		entries = append(entries, avltree.Entry{Key: k, Offset: int64(i)})
	}

	var loaded avltree.Tree
	loaded.BulkLoad(entries)

	require.Equal(t, built.Len(), loaded.Len())
	require.Equal(t, keys(&built), keys(&loaded))
	for i := 0; i < built.Len(); i++ {
		wantE, err := built.At(i)
		require.NoError(t, err)
		gotE, err := loaded.At(i)
		require.NoError(t, err)
		require.Equal(t, wantE, gotE)
	}
}

func TestInOrderStopsOnBreak(t *testing.T) {
	var tr avltree.Tree
	tr.Insert("A", 1)
	tr.Insert("B", 2)

	var seen []string
	for e := range tr.InOrder() {
		seen = append(seen, e.Key)
		break // stop after the first element
	}
	require.Equal(t, []string{"A"}, seen)
}

// TestRandomizedAgainstReferenceSet drives random inserts and deletes
// against both the tree and a plain sorted slice, checking size,
// ordering, and lookup consistency after each step.
func TestRandomizedAgainstReferenceSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ref := map[string]int64{}

	var tr avltree.Tree
	for step := 0; step < 2000; step++ {
		key := fmt.Sprintf("k%03d", rng.Intn(80))
		offset := int64(step)

		if rng.Intn(3) == 0 {
			_, existed := ref[key]
			delete(ref, key)
			removed := tr.Delete(key)
			require.Equal(t, existed, removed)
		} else {
			_, existed := ref[key]
			ref[key] = offset
			added := tr.Insert(key, offset)
			require.Equal(t, !existed, added)
		}

		require.Equal(t, len(ref), tr.Len())
	}

	var wantKeys []string
	for k := range ref {
		wantKeys = append(wantKeys, k)
	}
	slices.Sort(wantKeys)

	require.Equal(t, wantKeys, keys(&tr))

	for i, k := range wantKeys {
		e, err := tr.At(i)
		require.NoError(t, err)
		require.Equal(t, k, e.Key)
		require.Equal(t, ref[k], e.Offset)
	}

	for k, wantOffset := range ref {
		off, ok := tr.Lookup(k)
		require.True(t, ok)
		require.Equal(t, wantOffset, off)
	}
}
