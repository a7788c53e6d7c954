package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaymccoy/Mosaist/pdb"
)

func listResidues(n int) []*pdb.Residue {
	entry := pdb.NewEntry("test")
	chain := entry.AppendChain('A')
	for i := 0; i < n; i++ {
		chain.AppendResidue("LEU", i+1)
	}
	return entry.Residues()
}

func TestListLookup(t *testing.T) {
	rs := listResidues(4)
	l := NewList()
	l.Add(rs[0], rs[1], 0.5, "", false)
	l.Add(rs[2], rs[3], 0.2, "interference", true)

	require.Equal(t, 2, l.Len())
	assert.Same(t, rs[0], l.SrcResidue(0))
	assert.Same(t, rs[1], l.DstResidue(0))
	assert.Equal(t, 0.5, l.Degree(0))
	assert.Equal(t, "interference", l.Info(1))

	// Non-directional contacts are visible from both sides.
	assert.True(t, l.AreInContact(rs[0], rs[1]))
	assert.True(t, l.AreInContact(rs[1], rs[0]))
	deg, ok := l.DegreeBetween(rs[1], rs[0])
	require.True(t, ok)
	assert.Equal(t, 0.5, deg)

	// Directional contacts only in their declared direction.
	assert.True(t, l.AreInContact(rs[2], rs[3]))
	assert.False(t, l.AreInContact(rs[3], rs[2]))

	assert.False(t, l.AreInContact(rs[0], rs[2]))
	_, ok = l.DegreeBetween(rs[0], rs[2])
	assert.False(t, ok)
}

func TestListSortByDegree(t *testing.T) {
	rs := listResidues(6)
	l := NewList()
	l.Add(rs[0], rs[1], 0.1, "", false)
	l.Add(rs[2], rs[3], 0.9, "", false)
	l.Add(rs[4], rs[5], 0.5, "x", true)

	l.SortByDegree()

	assert.Equal(t, []float64{0.9, 0.5, 0.1},
		[]float64{l.Degree(0), l.Degree(1), l.Degree(2)})
	assert.Same(t, rs[2], l.SrcResidue(0))
	assert.Equal(t, "x", l.Info(1))

	// The lookup table survives the permutation, including directionality.
	deg, ok := l.DegreeBetween(rs[1], rs[0])
	require.True(t, ok)
	assert.Equal(t, 0.1, deg)
	assert.True(t, l.AreInContact(rs[4], rs[5]))
	assert.False(t, l.AreInContact(rs[5], rs[4]))
}

func TestListSortIsStable(t *testing.T) {
	rs := listResidues(6)
	l := NewList()
	l.Add(rs[0], rs[1], 0.5, "first", false)
	l.Add(rs[2], rs[3], 0.5, "second", false)
	l.Add(rs[4], rs[5], 0.5, "third", false)

	l.SortByDegree()

	assert.Equal(t, "first", l.Info(0))
	assert.Equal(t, "second", l.Info(1))
	assert.Equal(t, "third", l.Info(2))
}

func TestOrderedContacts(t *testing.T) {
	rs := listResidues(5)
	l := NewList()
	// Inserted backwards and with the pair residues swapped; the ordered
	// view must not care. Pairs sharing a first residue order on the
	// partner's index.
	l.Add(rs[4], rs[3], 0.2, "", false)
	l.Add(rs[2], rs[0], 0.7, "", false)
	l.Add(rs[1], rs[0], 0.3, "", false)

	pairs := l.OrderedContacts()
	require.Len(t, pairs, 3)
	assert.Same(t, rs[0], pairs[0].A)
	assert.Same(t, rs[1], pairs[0].B)
	assert.Same(t, rs[0], pairs[1].A)
	assert.Same(t, rs[2], pairs[1].B)
	assert.Same(t, rs[3], pairs[2].A)
	assert.Same(t, rs[4], pairs[2].B)
}
