package contact

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaymccoy/Mosaist/pdb"
	"github.com/kaymccoy/Mosaist/rotlib"
)

// testEntry builds a single chain of idealized residues spaced 3.8 A apart
// along x, all with the same backbone geometry. With this template, a
// rotamer atom at canonical coordinates (x, y, z) lands at CA + (-x, y, -z),
// so test rotamers below are written as cg(wx, wy, wz) giving the desired
// world offset from CA directly.
func testEntry(names ...string) *pdb.Entry {
	entry := pdb.NewEntry("test")
	chain := entry.AppendChain('A')
	for i, name := range names {
		d := float64(i) * 3.8
		res := chain.AppendResidue(name, i+1)
		res.AppendAtom("N", pdb.Coords{X: d - 1.46, Y: 0, Z: 0})
		res.AppendAtom("CA", pdb.Coords{X: d, Y: 0, Z: 0})
		res.AppendAtom("C", pdb.Coords{X: d + 0.55, Y: 1.42, Z: 0})
		res.AppendAtom("O", pdb.Coords{X: d + 0.55, Y: 2.65, Z: 0})
	}
	return entry
}

func cg(wx, wy, wz float64) rotlib.NamedCoord {
	return rotlib.NamedCoord{
		Name:   "CG",
		Coords: pdb.Coords{X: -wx, Y: wy, Z: -wz},
	}
}

// testParams uses power-of-two propensities so that every probability in
// the scenarios below is exact.
func testParams() Params {
	p := DefaultParams()
	p.Propensity = map[string]float64{"LEU": 2.0, "ILE": 4.0, "GLY": 1.0}
	return p
}

// contactLib realizes a two-residue LEU/ILE scenario where exactly one
// rotamer pair (LEU 1, ILE 1) is in side-chain contact and nothing clashes
// with any backbone.
func contactLib(t *testing.T) *rotlib.Library {
	t.Helper()
	lib, err := rotlib.NewLibraryFromRotamers([]rotlib.Rotamer{
		{AA: "LEU", Index: 1, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(2.4, -2.5, 0)}},
		{AA: "LEU", Index: 2, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(0, -6, 0)}},
		{AA: "ILE", Index: 1, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(-0.5, -2.5, 0)}},
		{AA: "ILE", Index: 2, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(0, -6, 0)}},
	})
	require.NoError(t, err)
	return lib
}

// pruneLib realizes a three-residue LEU/GLY/ILE scenario where LEU rotamer
// 1 reaches across the glycine and clashes with the third residue's
// backbone, so it is pruned and attributed as interference.
func pruneLib(t *testing.T) *rotlib.Library {
	t.Helper()
	lib, err := rotlib.NewLibraryFromRotamers([]rotlib.Rotamer{
		{AA: "LEU", Index: 1, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(7.6, 0.5, 0)}},
		{AA: "LEU", Index: 2, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(0, -6, 0)}},
		{AA: "ILE", Index: 1, Propensity: 1, Atoms: []rotlib.NamedCoord{cg(0, -6, 0)}},
	})
	require.NoError(t, err)
	return lib
}

func TestContactDegree(t *testing.T) {
	entry := testEntry("LEU", "ILE")
	finder := NewFinder(contactLib(t), entry, testParams())
	leu, ile := entry.Residue(0), entry.Residue(1)

	// One clashing pair out of four: w(LEU 1)*w(ILE 1) / (W_LEU * W_ILE)
	// = (2*4) / (4*8).
	deg := finder.ContactDegree(leu, ile)
	assert.InDelta(t, 0.25, deg, 1e-12)

	// The degree is symmetric and cached.
	assert.Equal(t, deg, finder.ContactDegree(ile, leu))
	assert.Equal(t, deg, finder.ContactDegree(leu, ile))
}

func TestContacts(t *testing.T) {
	entry := testEntry("LEU", "ILE")
	finder := NewFinder(contactLib(t), entry, testParams())
	leu, ile := entry.Residue(0), entry.Residue(1)

	list := finder.Contacts(leu, 0.01, nil)
	require.Equal(t, 1, list.Len())
	assert.Same(t, leu, list.SrcResidue(0))
	assert.Same(t, ile, list.DstResidue(0))

	// The listed degree is the same value a direct query returns, from
	// either side.
	deg, ok := list.DegreeBetween(ile, leu)
	require.True(t, ok)
	assert.Equal(t, finder.ContactDegree(leu, ile), deg)

	// A threshold above the degree filters the contact out.
	assert.Equal(t, 0, finder.Contacts(leu, 0.3, nil).Len())

	// The whole-structure list holds the pair once, not once per side.
	finder.CacheAll()
	assert.Equal(t, 1, finder.ContactsAll(0.01).Len())

	partners := finder.ContactingResidues(leu, 0.01)
	require.Len(t, partners, 1)
	assert.Same(t, ile, partners[0])
}

func TestGlycineHasNoRotamers(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	gly := entry.Residue(1)

	assert.Equal(t, 0.0, finder.ContactDegree(gly, entry.Residue(0)))
	assert.Equal(t, 0.0, finder.ContactDegree(entry.Residue(0), gly))
	assert.Equal(t, 0.0, finder.Freedom(gly))
	assert.Equal(t, 0.0, finder.Crowdedness(gly))
	assert.Equal(t, 0, finder.Contacts(gly, 0, nil).Len())
}

func TestPruningAndCrowdedness(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	leu, ile := entry.Residue(0), entry.Residue(2)

	// LEU rotamer 1 clashes with the third residue's backbone: half the
	// rotamer mass is pruned.
	assert.InDelta(t, 0.5, finder.Crowdedness(leu), 1e-12)
	assert.Equal(t, 0.0, finder.Crowdedness(ile))

	assert.Equal(t, 4.0, finder.WeightOfAvailableRotamers(leu))
}

func TestInterferenceBothViews(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	leu, ile := entry.Residue(0), entry.Residue(2)

	// The interfered view: LEU's rotamers are blocked by ILE's backbone.
	finder := NewFinder(pruneLib(t), entry, testParams())
	list := finder.Interfering([]*pdb.Residue{leu}, 0.01, nil)
	require.Equal(t, 1, list.Len())
	assert.Same(t, leu, list.SrcResidue(0))
	assert.Same(t, ile, list.DstResidue(0))
	assert.InDelta(t, 0.5, list.Degree(0), 1e-12)
	assert.Equal(t, "interference", list.Info(0))

	// The interfering view reports the same relationship with the same
	// value, queried from the other end.
	finder = NewFinder(pruneLib(t), entry, testParams())
	list = finder.Interference([]*pdb.Residue{ile}, 0.01, nil)
	require.Equal(t, 1, list.Len())
	assert.Same(t, leu, list.SrcResidue(0))
	assert.Same(t, ile, list.DstResidue(0))
	assert.InDelta(t, 0.5, list.Degree(0), 1e-12)

	// Interference is directional: the record is only visible as
	// (interfered, interferer).
	assert.True(t, list.AreInContact(leu, ile))
	assert.False(t, list.AreInContact(ile, leu))
}

func TestFreedomZones(t *testing.T) {
	entry := testEntry("LEU", "ILE")
	leu := entry.Residue(0)

	// With the contact scenario, LEU rotamer 1 accumulates a collision
	// probability of exactly 0.5 (the low cutoff, so it falls in the
	// boundary zone) and rotamer 2 stays free.
	p := testParams()
	p.FreedomType = FreedomFreeFraction
	assert.InDelta(t, 0.5, NewFinder(contactLib(t), entry, p).Freedom(leu), 1e-12)

	p.FreedomType = FreedomSoftFraction
	assert.InDelta(t, 0.75, NewFinder(contactLib(t), entry, p).Freedom(leu), 1e-12)

	p.FreedomType = FreedomExponential
	assert.InDelta(t, math.Exp(-0.25),
		NewFinder(contactLib(t), entry, p).Freedom(leu), 1e-12)
}

func TestFreedomWithPrunedRotamers(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	leu := entry.Residue(0)

	// One pruned rotamer counts as excluded, one survives collision-free.
	assert.InDelta(t, 0.5, finder.Freedom(leu), 1e-12)

	fs := finder.Freedoms(entry.Residues())
	require.Len(t, fs, 3)
	assert.Equal(t, finder.Freedom(leu), fs[0])
	assert.Equal(t, 0.0, fs[1])
}

func TestCachedFreedomStateMachine(t *testing.T) {
	entry := testEntry("LEU", "ILE")
	finder := NewFinder(contactLib(t), entry, testParams())
	leu := entry.Residue(0)

	_, err := finder.CachedFreedom(leu)
	assert.ErrorIs(t, err, ErrNotCached)

	finder.Cache(leu)
	v, err := finder.CachedFreedom(leu)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)

	finder.ClearFreedom()
	assert.InDelta(t, 0.5, finder.Freedom(leu), 1e-12)
}

func TestNeighbors(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	rs := entry.Residues()

	finder := NewFinder(pruneLib(t), entry, testParams())
	nbs := finder.Neighbors(rs[0])
	require.Len(t, nbs, 2)
	assert.Same(t, rs[1], nbs[0])
	assert.Same(t, rs[2], nbs[1])
	assert.True(t, finder.AreNeighbors(rs[0], rs[2]))
	assert.False(t, finder.AreNeighbors(rs[0], rs[0]))

	// A tighter cutoff drops the far residue.
	p := testParams()
	p.DCut = 5.0
	finder = NewFinder(pruneLib(t), entry, p)
	nbs = finder.Neighbors(rs[0])
	require.Len(t, nbs, 1)
	assert.Same(t, rs[1], nbs[0])
	assert.False(t, finder.AreNeighbors(rs[0], rs[2]))
}

func TestForeignResidueDegrades(t *testing.T) {
	entry := testEntry("LEU", "ILE")
	other := testEntry("LEU", "ILE")
	finder := NewFinder(contactLib(t), entry, testParams())

	foreign := other.Residue(0)
	assert.Equal(t, 0.0, finder.ContactDegree(foreign, entry.Residue(1)))
	assert.Equal(t, 0.0, finder.Freedom(foreign))
	assert.Nil(t, finder.Neighbors(foreign))
	assert.Equal(t, 0, finder.Contacts(foreign, 0, nil).Len())
}

func TestCountsAsSideChain(t *testing.T) {
	entry := testEntry("LEU")
	finder := NewFinder(contactLib(t), entry, testParams())

	assert.False(t, finder.CountsAsSideChain("CA", "LEU"))
	assert.False(t, finder.CountsAsSideChain("O", "LEU"))
	assert.True(t, finder.CountsAsSideChain("CG", "LEU"))
	assert.False(t, finder.CountsAsSideChain("HB2", "LEU"))
	assert.False(t, finder.CountsAsSideChain("1HG1", "LEU"))

	// CB is opt-in, except for alanine where it is the whole side chain.
	assert.False(t, finder.CountsAsSideChain("CB", "LEU"))
	assert.True(t, finder.CountsAsSideChain("CB", "ALA"))

	p := testParams()
	p.CountCB = true
	finder = NewFinder(contactLib(t), entry, p)
	assert.True(t, finder.CountsAsSideChain("CB", "LEU"))
}

func TestBBInteraction(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	rs := entry.Residues()

	// Adjacent backbones: the C(i) to N(i+1) distance is the smallest.
	d, ok := finder.BBInteraction(rs[0], rs[1])
	require.True(t, ok)
	assert.InDelta(t, 2.285, d, 1e-2)

	// A residue with no backbone atoms has no defined distance.
	bare := entry.Chain('A').AppendResidue("LEU", 9)
	_, ok = finder.BBInteraction(rs[0], bare)
	assert.False(t, ok)
}

func TestBBInteractions(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	rs := entry.Residues()

	// With the chain neighbor excluded, only the i+2 residue is close
	// enough.
	list := finder.BBInteractions(rs[0], 6.0, 1, nil)
	require.Equal(t, 1, list.Len())
	assert.Same(t, rs[2], list.DstResidue(0))
	assert.Equal(t, "bb", list.Info(0))
	assert.InDelta(t, 5.767, list.Degree(0), 1e-2)

	// Widening the flanking exclusion removes it too.
	assert.Equal(t, 0, finder.BBInteractions(rs[0], 6.0, 2, nil).Len())

	// A tighter distance cutoff also removes it.
	assert.Equal(t, 0, finder.BBInteractions(rs[0], 5.0, 1, nil).Len())

	partners := finder.BBInteractingResidues(rs[0], 6.0, 1)
	require.Len(t, partners, 1)
	assert.Same(t, rs[2], partners[0])
}

func TestRotamerLog(t *testing.T) {
	entry := testEntry("LEU", "GLY", "ILE")
	finder := NewFinder(pruneLib(t), entry, testParams())
	logPath := filepath.Join(t.TempDir(), "rotamers.log")

	require.NoError(t, finder.OpenLog(logPath, false))
	finder.Cache(entry.Residue(0))
	require.NoError(t, finder.CloseLog())

	// Closing twice, and caching after close, are safe no-ops.
	require.NoError(t, finder.CloseLog())
	finder.CacheAll()

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "ACCEPT")
	assert.Contains(t, string(contents), "REJECT")
}

func TestReadParamsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.conf")
	require.NoError(t, os.WriteFile(path, []byte(ExampleConfigFile), 0666))

	p, err := ReadParams(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultParams().DCut, p.DCut)
	assert.Equal(t, DefaultParams().FreedomType, p.FreedomType)

	override := "[ConFind]\nContDist = 4.5\nCountCB = true\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0666))
	p, err = ReadParams(path)
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.ContDist)
	assert.True(t, p.CountCB)
	assert.Equal(t, DefaultParams().ClashDist, p.ClashDist)

	_, err = ReadParams(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)
}
