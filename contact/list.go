// Package contact computes steric contact metrics between residues of a
// macromolecular structure: pairwise contact degrees, per-residue
// conformational freedom, directional side-chain-to-backbone interference
// and backbone-to-backbone proximity.
package contact

import (
	"sort"

	"github.com/kaymccoy/Mosaist/pdb"
)

// Pair is an ordered residue pair.
type Pair struct {
	A, B *pdb.Residue
}

// List is an ordered collection of pairwise contact records with O(1) pair
// lookup and degree-based sorting. Records are stored in parallel slices in
// insertion order until SortByDegree is called.
type List struct {
	src, dst    []*pdb.Residue
	degrees     []float64
	infos       []string
	directional []bool

	// lookup maps a (src, dst) pair to its record index. Non-directional
	// records are registered in both directions.
	lookup map[*pdb.Residue]map[*pdb.Residue]int

	// ordered holds each non-directional contact once, canonicalized so
	// that the residue with the smaller structural index comes first.
	// Directional contacts are stored as given.
	ordered map[Pair]struct{}
}

// NewList returns an empty contact list.
func NewList() *List {
	return &List{
		lookup:  make(map[*pdb.Residue]map[*pdb.Residue]int),
		ordered: make(map[Pair]struct{}),
	}
}

// Add appends a contact record. For non-directional contacts both the
// (src, dst) and (dst, src) lookups are registered, and the canonicalized
// pair is inserted into the ordered set.
func (l *List) Add(src, dst *pdb.Residue, degree float64, info string, directional bool) {
	idx := len(l.src)
	l.src = append(l.src, src)
	l.dst = append(l.dst, dst)
	l.degrees = append(l.degrees, degree)
	l.infos = append(l.infos, info)
	l.directional = append(l.directional, directional)

	l.setLookup(src, dst, idx)
	if !directional {
		l.setLookup(dst, src, idx)
	}

	p := Pair{src, dst}
	if !directional && src.Index() > dst.Index() {
		p = Pair{dst, src}
	}
	l.ordered[p] = struct{}{}
}

func (l *List) setLookup(a, b *pdb.Residue, idx int) {
	m, ok := l.lookup[a]
	if !ok {
		m = make(map[*pdb.Residue]int)
		l.lookup[a] = m
	}
	m[b] = idx
}

// Len returns the number of contact records.
func (l *List) Len() int {
	return len(l.src)
}

// SrcResidue returns the source residue of the i'th record.
func (l *List) SrcResidue(i int) *pdb.Residue {
	return l.src[i]
}

// DstResidue returns the destination residue of the i'th record.
func (l *List) DstResidue(i int) *pdb.Residue {
	return l.dst[i]
}

// Degree returns the degree of the i'th record.
func (l *List) Degree(i int) float64 {
	return l.degrees[i]
}

// Info returns the annotation of the i'th record.
func (l *List) Info(i int) string {
	return l.infos[i]
}

// AreInContact returns true if a contact between a and b was previously
// added, in the declared direction for directional records or either
// direction for non-directional ones.
func (l *List) AreInContact(a, b *pdb.Residue) bool {
	_, ok := l.lookup[a][b]
	return ok
}

// DegreeBetween returns the degree of the contact between a and b, if one
// was added.
func (l *List) DegreeBetween(a, b *pdb.Residue) (float64, bool) {
	idx, ok := l.lookup[a][b]
	if !ok {
		return 0, false
	}
	return l.degrees[idx], true
}

// SortByDegree sorts the records by contact degree, highest to lowest. The
// sort is stable: records with equal degrees keep their original relative
// order. All parallel fields move together and the lookup table is
// rebuilt.
func (l *List) SortByDegree() {
	perm := make([]int, len(l.src))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return l.degrees[perm[i]] > l.degrees[perm[j]]
	})

	src := make([]*pdb.Residue, len(l.src))
	dst := make([]*pdb.Residue, len(l.dst))
	degrees := make([]float64, len(l.degrees))
	infos := make([]string, len(l.infos))
	directional := make([]bool, len(l.directional))
	for newIdx, oldIdx := range perm {
		src[newIdx] = l.src[oldIdx]
		dst[newIdx] = l.dst[oldIdx]
		degrees[newIdx] = l.degrees[oldIdx]
		infos[newIdx] = l.infos[oldIdx]
		directional[newIdx] = l.directional[oldIdx]
	}
	l.src, l.dst, l.degrees, l.infos = src, dst, degrees, infos
	l.directional = directional

	// Lookup indices are stale after the permutation.
	l.lookup = make(map[*pdb.Residue]map[*pdb.Residue]int)
	for i := range l.src {
		l.setLookup(l.src[i], l.dst[i], i)
		if !l.directional[i] {
			l.setLookup(l.dst[i], l.src[i], i)
		}
	}
}

// OrderedContacts returns the canonicalized pairs in ascending
// structural-index order of the first residue, tie-broken on the second
// residue's index. The result is independent of insertion order.
func (l *List) OrderedContacts() []Pair {
	pairs := make([]Pair, 0, len(l.ordered))
	for p := range l.ordered {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A.Index() != pairs[j].A.Index() {
			return pairs[i].A.Index() < pairs[j].A.Index()
		}
		return pairs[i].B.Index() < pairs[j].B.Index()
	})
	return pairs
}
