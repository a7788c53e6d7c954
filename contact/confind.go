package contact

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kaymccoy/Mosaist/pdb"
	"github.com/kaymccoy/Mosaist/prox"
	"github.com/kaymccoy/Mosaist/rotlib"
)

// ErrNotCached is returned by aggregation entry points that require a
// residue's collision statistics to have been fully computed beforehand.
// Query entry points like Freedom never return it; they cache on demand.
var ErrNotCached = errors.New(
	"the residue's collision statistics have not been fully computed")

// Finder computes contact degrees, conformational freedom, interference
// and backbone interactions over a single structure. It owns all derived
// caches and spatial indexes; it borrows the structure and the rotamer
// library, which must outlive it.
//
// Residue caches are keyed by structural index, a stable handle into the
// borrowed structure, never by pointer identity. A residue belonging to a
// different structure resolves to no handle and every query on it degrades
// to a zero or sentinel result.
//
// A Finder is single threaded: concurrent queries race on the shared
// caches and are not supported.
type Finder struct {
	lib      *rotlib.Library
	entry    *pdb.Entry
	p        Params
	residues []*pdb.Residue

	considered map[string]bool

	// caNN indexes alpha carbons, bbNN all backbone atoms; both tag each
	// point with the owning residue's handle.
	caNN *prox.Search
	bbNN *prox.Search

	cache        map[int]*resCache
	degrees      map[int]map[int]float64
	interference map[int]map[int]float64 // raw clashing mass, src -> dst
	freedom      map[int]float64

	logFile *os.File
}

// resCache is the per-residue derived state. Its life cycle is monotonic:
// first the rotamer ensemble is built, then collision statistics are
// folded in neighbor by neighbor until the residue is fully collided.
// Nothing is ever silently invalidated.
type resCache struct {
	built    bool
	collided bool

	numLibRot  int
	libWeight  float64 // total a-priori probability mass of all library rotamers
	prunedMass float64 // mass pruned upfront by backbone clash

	surviving []placedRotamer
	cloud     *prox.Decorated[int] // side-chain heavy atoms, tagged by survivor ordinal

	collProb map[int]float64 // library rotamer index -> accumulated collision probability
	collDone map[int]bool    // neighbor handles already folded into collProb
}

// placedRotamer is one surviving rotamer placed on the residue's backbone
// frame: its library index, its propensity-weighted probability mass, and
// its classified side-chain heavy atoms in world coordinates.
type placedRotamer struct {
	libIndex int
	weight   float64
	atoms    []rotlib.NamedCoord
}

// NewFinder creates a Finder over the given structure. Nothing is cached
// upfront: any query on an uncached residue transparently caches exactly
// what it needs.
func NewFinder(lib *rotlib.Library, entry *pdb.Entry, p Params) *Finder {
	f := &Finder{
		lib:          lib,
		entry:        entry,
		p:            p,
		residues:     entry.Residues(),
		considered:   make(map[string]bool, len(p.AminoAcids)),
		cache:        make(map[int]*resCache),
		degrees:      make(map[int]map[int]float64),
		interference: make(map[int]map[int]float64),
		freedom:      make(map[int]float64),
	}
	for _, aa := range p.AminoAcids {
		f.considered[aa] = true
	}

	var caPts, bbPts []pdb.Coords
	var caTags, bbTags []int
	for h, res := range f.residues {
		if ca := res.Ca(); ca != nil {
			caPts = append(caPts, ca.Coords)
			caTags = append(caTags, h)
		}
		for _, a := range res.BackboneAtoms() {
			bbPts = append(bbPts, a.Coords)
			bbTags = append(bbTags, h)
		}
	}
	if len(caPts) > 0 {
		f.caNN = prox.NewWithDistance(caPts, caTags, p.DCut, 0)
	}
	if len(bbPts) > 0 {
		f.bbNN = prox.NewWithDistance(bbPts, bbTags, p.ClashDist, 0)
	}
	return f
}

// NewFinderFile is like NewFinder, but reads the rotamer library from a
// file. An unreadable library makes the whole Finder unusable, so the
// error is returned immediately at construction.
func NewFinderFile(libFile string, entry *pdb.Entry, p Params) (*Finder, error) {
	lib, err := rotlib.NewLibrary(libFile)
	if err != nil {
		return nil, fmt.Errorf("Could not read rotamer library '%s': %s",
			libFile, err)
	}
	return NewFinder(lib, entry, p), nil
}

// handle resolves a residue to its structural-index cache key. Residues
// from a different structure (or nil) resolve to no handle.
func (f *Finder) handle(res *pdb.Residue) (int, bool) {
	if res == nil {
		return -1, false
	}
	h := res.Index()
	if h < 0 || h >= len(f.residues) || f.residues[h] != res {
		return -1, false
	}
	return h, true
}

// CountsAsSideChain encodes whether a given atom counts as "side chain"
// for the purposes of finding side-chain contacts: every heavy atom beyond
// the backbone, with CB included only when configured. Alanine's CB is its
// entire side chain and always counts.
func (f *Finder) CountsAsSideChain(atomName, resName string) bool {
	if pdb.IsBackbone(atomName) {
		return false
	}
	// Hydrogens (H, HB2, 1HG1, ...) are never counted.
	if strings.HasPrefix(atomName, "H") ||
		(len(atomName) > 1 && atomName[0] >= '0' && atomName[0] <= '9') {
		return false
	}
	if atomName == "CB" {
		return f.p.CountCB || resName == "ALA"
	}
	return true
}

// Neighbors returns the residues whose alpha carbons lie within DCut of
// the given residue's alpha carbon, ordered by structural index. The
// residue itself is not included. A residue without an alpha carbon has no
// neighbors.
func (f *Finder) Neighbors(res *pdb.Residue) []*pdb.Residue {
	h, ok := f.handle(res)
	if !ok || f.caNN == nil {
		return nil
	}
	ca := res.Ca()
	if ca == nil {
		return nil
	}
	tags := f.caNN.TagsWithin(ca.Coords, 0, f.p.DCut)
	sort.Ints(tags)
	nbs := make([]*pdb.Residue, 0, len(tags))
	for _, t := range tags {
		if t != h {
			nbs = append(nbs, f.residues[t])
		}
	}
	return nbs
}

// AreNeighbors returns true if the alpha carbons of two distinct residues
// lie within DCut of each other.
func (f *Finder) AreNeighbors(a, b *pdb.Residue) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	caA, caB := a.Ca(), b.Ca()
	if caA == nil || caB == nil {
		return false
	}
	return caA.Dist(caB.Coords) <= f.p.DCut
}

// Cache fully computes the given residue's collision statistics: its
// rotamer ensemble, the ensembles of all its neighbors, and the pairwise
// clash accumulation against each of them. Queries call it implicitly; it
// is exported for callers that want to control when the work happens.
func (f *Finder) Cache(res *pdb.Residue) {
	h, ok := f.handle(res)
	if !ok {
		return
	}
	rc := f.buildRotamers(h)
	if rc.collided {
		return
	}
	for _, nb := range f.Neighbors(res) {
		hb, _ := f.handle(nb)
		f.buildRotamers(hb)
		f.collide(h, hb)
	}
	rc.collided = true
}

// CacheResidues caches each of the given residues.
func (f *Finder) CacheResidues(residues []*pdb.Residue) {
	for _, res := range residues {
		f.Cache(res)
	}
}

// CacheAll caches every residue of the structure.
func (f *Finder) CacheAll() {
	f.CacheResidues(f.residues)
}

// flankSet returns the handles whose backbone a rotamer of res is allowed
// to touch without being pruned: the residue itself and its two chain
// neighbors, whose backbones are covalently close by construction.
func (f *Finder) flankSet(res *pdb.Residue) map[int]bool {
	excl := make(map[int]bool, 3)
	if h, ok := f.handle(res); ok {
		excl[h] = true
	}
	if prev := res.Prev(); prev != nil {
		if h, ok := f.handle(prev); ok {
			excl[h] = true
		}
	}
	if next := res.Next(); next != nil {
		if h, ok := f.handle(next); ok {
			excl[h] = true
		}
	}
	return excl
}

// buildRotamers computes the residue's rotamer ensemble: every library
// rotamer is placed on the residue's backbone frame, tested against the
// structure's fixed backbone, and either pruned (with its clash attributed
// to the interfering residues) or added to the surviving ensemble and the
// residue's side-chain atom cloud.
func (f *Finder) buildRotamers(h int) *resCache {
	rc := f.cache[h]
	if rc == nil {
		rc = &resCache{
			collProb: make(map[int]float64),
			collDone: make(map[int]bool),
		}
		f.cache[h] = rc
	}
	if rc.built {
		return rc
	}
	rc.built = true

	res := f.residues[h]
	if !f.considered[res.Name] {
		// Glycine, proline and anything non-canonical carry no
		// independent rotamers. Their backbones still matter to others.
		return rc
	}
	n, ca, c := res.Atom("N"), res.Ca(), res.Atom("C")
	if n == nil || ca == nil || c == nil {
		// Incomplete backbone: no frame to place rotamers on.
		return rc
	}

	rots := f.lib.Rotamers(res.Name)
	rc.numLibRot = len(rots)
	aaProp := f.p.Propensity[res.Name]
	weights := make([]float64, 0, len(rots))

	var cloudPts []pdb.Coords
	var cloudData []int
	excl := f.flankSet(res)

	for _, rot := range rots {
		w := aaProp * rot.Propensity
		weights = append(weights, w)

		placed := rotlib.Place(rot, n.Coords, ca.Coords, c.Coords)
		if placed == nil {
			continue
		}
		sc := make([]rotlib.NamedCoord, 0, len(placed))
		for _, a := range placed {
			if f.CountsAsSideChain(a.Name, res.Name) {
				sc = append(sc, a)
			}
		}

		// Backbone clash test, attributing each clash to the owning
		// residue for the interference tables.
		clashed := make(map[int]bool)
		if f.bbNN != nil {
			for _, a := range sc {
				for _, t := range f.bbNN.TagsWithin(a.Coords, 0, f.p.ClashDist) {
					if !excl[t] {
						clashed[t] = true
					}
				}
			}
		}
		for hb := range clashed {
			f.addInterference(h, hb, w)
		}
		if len(clashed) > 0 {
			rc.prunedMass += w
			f.logRotamer(res, rot, false, w)
			continue
		}
		f.logRotamer(res, rot, true, w)

		ord := len(rc.surviving)
		rc.surviving = append(rc.surviving, placedRotamer{
			libIndex: rot.Index,
			weight:   w,
			atoms:    sc,
		})
		for _, a := range sc {
			cloudPts = append(cloudPts, a.Coords)
			cloudData = append(cloudData, ord)
		}
	}

	rc.libWeight = floats.Sum(weights)
	if len(cloudPts) > 0 {
		rc.cloud = prox.NewDecoratedWithPoints(
			cloudPts, cloudData, f.p.ContDist, f.p.ContDist)
	}
	return rc
}

func (f *Finder) addInterference(src, dst int, mass float64) {
	m, ok := f.interference[src]
	if !ok {
		m = make(map[int]float64)
		f.interference[src] = m
	}
	m[dst] += mass
}

// collide folds the pairwise rotamer clash statistics of two residues into
// whichever of the two still needs them, and computes their contact degree
// if it is not yet known. Each side's collision table absorbs a given
// partner exactly once, so repeated calls are harmless.
func (f *Finder) collide(hA, hB int) {
	a, b := f.cache[hA], f.cache[hB]
	needA, needB := !a.collDone[hB], !b.collDone[hA]
	_, haveDegree := f.degrees[hA][hB]
	if !needA && !needB && haveDegree {
		return
	}

	var pairMass float64
	probA := make(map[int]float64) // survivor ordinal of A -> clashing mass of B
	probB := make(map[int]float64)

	if a.cloud != nil && b.cloud != nil && a.cloud.Overlaps(b.cloud.Search, 0) {
		seen := make(map[[2]int]bool)
		for ordA := range a.surviving {
			ra := &a.surviving[ordA]
			for _, atom := range ra.atoms {
				for _, ordB := range b.cloud.DataWithin(atom.Coords, 0, f.p.ContDist) {
					key := [2]int{ordA, ordB}
					if seen[key] {
						continue
					}
					seen[key] = true
					rb := &b.surviving[ordB]
					pairMass += ra.weight * rb.weight
					probA[ordA] += rb.weight
					probB[ordB] += ra.weight
				}
			}
		}
	}

	if needA {
		if b.libWeight > 0 {
			for ordA, m := range probA {
				a.collProb[a.surviving[ordA].libIndex] += m / b.libWeight
			}
		}
		a.collDone[hB] = true
	}
	if needB {
		if a.libWeight > 0 {
			for ordB, m := range probB {
				b.collProb[b.surviving[ordB].libIndex] += m / a.libWeight
			}
		}
		b.collDone[hA] = true
	}

	if !haveDegree {
		deg := 0.0
		if a.libWeight > 0 && b.libWeight > 0 {
			deg = pairMass / (a.libWeight * b.libWeight)
		}
		f.setDegree(hA, hB, deg)
		f.setDegree(hB, hA, deg)
	}
}

func (f *Finder) setDegree(hA, hB int, deg float64) {
	m, ok := f.degrees[hA]
	if !ok {
		m = make(map[int]float64)
		f.degrees[hA] = m
	}
	m[hB] = deg
}

// ContactDegree returns the fraction of the rotamer probability mass of
// each residue eliminated by clashes attributable to the other. The value
// is symmetric and lies in [0, 1]. Residues farther apart than DCut, or
// residues without rotamers (glycine, proline, incomplete data), have a
// degree of zero.
func (f *Finder) ContactDegree(a, b *pdb.Residue) float64 {
	hA, okA := f.handle(a)
	hB, okB := f.handle(b)
	if !okA || !okB || !f.AreNeighbors(a, b) {
		return 0
	}
	f.buildRotamers(hA)
	f.buildRotamers(hB)
	f.collide(hA, hB)
	return f.degrees[hA][hB]
}

// Contacts returns the contacts of res whose degree exceeds cdcut. The
// residue is cached on demand. If list is non-nil, records are appended to
// it (skipping pairs it already holds) and it is returned; otherwise a new
// list is created.
func (f *Finder) Contacts(res *pdb.Residue, cdcut float64, list *List) *List {
	if list == nil {
		list = NewList()
	}
	h, ok := f.handle(res)
	if !ok {
		return list
	}
	f.Cache(res)
	for _, nb := range f.Neighbors(res) {
		hb, _ := f.handle(nb)
		deg := f.degrees[h][hb]
		if deg > cdcut && !list.AreInContact(res, nb) {
			list.Add(res, nb, deg, "", false)
		}
	}
	return list
}

// ContactsOf accumulates the contacts of each given residue into one list.
func (f *Finder) ContactsOf(residues []*pdb.Residue, cdcut float64, list *List) *List {
	if list == nil {
		list = NewList()
	}
	for _, res := range residues {
		f.Contacts(res, cdcut, list)
	}
	return list
}

// ContactsAll returns the contacts of every residue in the structure.
func (f *Finder) ContactsAll(cdcut float64) *List {
	return f.ContactsOf(f.residues, cdcut, nil)
}

// ContactingResidues returns the residues in contact with res with degree
// above cdcut, ordered by structural index.
func (f *Finder) ContactingResidues(res *pdb.Residue, cdcut float64) []*pdb.Residue {
	list := f.Contacts(res, cdcut, nil)
	out := make([]*pdb.Residue, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.DstResidue(i))
	}
	return out
}

// interferenceValue returns the normalized interference of dst's backbone
// on src's rotamer choice: the fraction of src's rotamer probability mass
// clashing with dst's backbone.
func (f *Finder) interferenceValue(src, dst int) float64 {
	rc := f.cache[src]
	if rc == nil || rc.libWeight <= 0 {
		return 0
	}
	return f.interference[src][dst] / rc.libWeight
}

// Interference returns the directional contacts in which the given
// residues act as the interfering side: records (src, dst) where dst is
// one of the given residues and the degree is the fraction of src's
// rotamers clashing with dst's backbone. Only values above incut are
// reported.
func (f *Finder) Interference(residues []*pdb.Residue, incut float64, list *List) *List {
	if list == nil {
		list = NewList()
	}
	for _, res := range residues {
		h, ok := f.handle(res)
		if !ok {
			continue
		}
		// Building the neighbors' ensembles attributes their backbone
		// clashes, including those against res.
		f.Cache(res)
		for _, nb := range f.Neighbors(res) {
			hb, _ := f.handle(nb)
			v := f.interferenceValue(hb, h)
			if v > incut && !list.AreInContact(nb, res) {
				list.Add(nb, res, v, "interference", true)
			}
		}
	}
	return list
}

// InterferenceAll reports interference across the whole structure.
func (f *Finder) InterferenceAll(incut float64) *List {
	return f.Interference(f.residues, incut, nil)
}

// Interfering returns the directional contacts in which the given
// residues are being interfered with: records (src, dst) where src is one
// of the given residues and dst's backbone clashes with src's rotamers.
// The numeric value for a given (src, dst) relationship is identical to
// the one Interference reports.
func (f *Finder) Interfering(residues []*pdb.Residue, incut float64, list *List) *List {
	if list == nil {
		list = NewList()
	}
	for _, res := range residues {
		h, ok := f.handle(res)
		if !ok {
			continue
		}
		f.buildRotamers(h)
		dsts := make([]int, 0, len(f.interference[h]))
		for hb := range f.interference[h] {
			dsts = append(dsts, hb)
		}
		sort.Ints(dsts)
		for _, hb := range dsts {
			v := f.interferenceValue(h, hb)
			if v > incut && !list.AreInContact(res, f.residues[hb]) {
				list.Add(res, f.residues[hb], v, "interference", true)
			}
		}
	}
	return list
}

// BBInteraction returns the minimum distance between the backbone atoms
// (N, CA, C, O) of two residues. ok is false if either residue has no
// backbone atoms at all.
func (f *Finder) BBInteraction(a, b *pdb.Residue) (dist float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	bbA, bbB := a.BackboneAtoms(), b.BackboneAtoms()
	if len(bbA) == 0 || len(bbB) == 0 {
		return 0, false
	}
	min := math.Inf(1)
	for _, atomA := range bbA {
		for _, atomB := range bbB {
			if d := atomA.Dist(atomB.Coords); d < min {
				min = d
			}
		}
	}
	return min, true
}

// withinFlank returns true if a and b sit within ignoreFlanking positions
// of each other on the same chain. Covalently adjacent backbones are
// trivially close, so such pairs are never reported as interacting.
func withinFlank(a, b *pdb.Residue, ignoreFlanking int) bool {
	if a.Chain() != b.Chain() {
		return false
	}
	d := a.PosInChain() - b.PosInChain()
	if d < 0 {
		d = -d
	}
	return d <= ignoreFlanking
}

// BBInteractions reports the residues with any backbone atom within dcut
// of a backbone atom of res, excluding res itself and residues within
// ignoreFlanking chain positions of it. The record degree is the minimum
// backbone atom distance.
func (f *Finder) BBInteractions(res *pdb.Residue, dcut float64, ignoreFlanking int, list *List) *List {
	if list == nil {
		list = NewList()
	}
	h, ok := f.handle(res)
	if !ok || f.bbNN == nil {
		return list
	}

	cand := make(map[int]bool)
	for _, a := range res.BackboneAtoms() {
		for _, t := range f.bbNN.TagsWithin(a.Coords, 0, dcut) {
			if t != h {
				cand[t] = true
			}
		}
	}
	handles := make([]int, 0, len(cand))
	for t := range cand {
		handles = append(handles, t)
	}
	sort.Ints(handles)

	for _, hb := range handles {
		other := f.residues[hb]
		if withinFlank(res, other, ignoreFlanking) {
			continue
		}
		min, ok := f.BBInteraction(res, other)
		if ok && min <= dcut && !list.AreInContact(res, other) {
			list.Add(res, other, min, "bb", false)
		}
	}
	return list
}

// BBInteractingResidues returns the residues BBInteractions would report
// for res, ordered by structural index.
func (f *Finder) BBInteractingResidues(res *pdb.Residue, dcut float64, ignoreFlanking int) []*pdb.Residue {
	list := f.BBInteractions(res, dcut, ignoreFlanking, nil)
	out := make([]*pdb.Residue, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.DstResidue(i))
	}
	return out
}

// Freedom returns the residue's conformational freedom: an aggregation of
// its per-rotamer collision probabilities selected by FreedomType. The
// residue is cached on demand; the result is memoized until ClearFreedom.
// Residues without rotamers have a freedom of zero.
func (f *Finder) Freedom(res *pdb.Residue) float64 {
	h, ok := f.handle(res)
	if !ok {
		return 0
	}
	f.Cache(res)
	v, err := f.computeFreedom(h)
	if err != nil {
		return 0
	}
	return v
}

// Freedoms returns the freedom of each given residue.
func (f *Finder) Freedoms(residues []*pdb.Residue) []float64 {
	out := make([]float64, len(residues))
	for i, res := range residues {
		out[i] = f.Freedom(res)
	}
	return out
}

// CachedFreedom computes the freedom of a residue whose collision
// statistics are already complete, without triggering any caching. It
// returns ErrNotCached if Cache (or a query implying it) has not been run
// on the residue; calling it out of order is the one misuse the engine
// reports instead of absorbing.
func (f *Finder) CachedFreedom(res *pdb.Residue) (float64, error) {
	h, ok := f.handle(res)
	if !ok {
		return 0, ErrNotCached
	}
	return f.computeFreedom(h)
}

// computeFreedom sums the freedom score from pre-computed collision
// probabilities. The residue must be fully collided.
func (f *Finder) computeFreedom(h int) (float64, error) {
	if v, ok := f.freedom[h]; ok {
		return v, nil
	}
	rc := f.cache[h]
	if rc == nil || !rc.collided {
		return 0, ErrNotCached
	}
	if rc.numLibRot == 0 {
		return 0, nil
	}

	// Classify each surviving rotamer's collision probability into the
	// free, boundary and excluded zones; rotamers pruned upfront by
	// backbone clash count as excluded.
	var nFree, nBound, nExcl float64
	for _, ra := range rc.surviving {
		p := rc.collProb[ra.libIndex]
		switch {
		case p < f.p.LoCollProbCut:
			nFree++
		case p < f.p.HiCollProbCut:
			nBound++
		default:
			nExcl++
		}
	}
	nExcl += float64(rc.numLibRot - len(rc.surviving))
	total := float64(rc.numLibRot)

	var v float64
	switch f.p.FreedomType {
	case FreedomSoftFraction:
		v = (nFree + nBound/2) / total
	case FreedomExponential:
		v = math.Exp(-(nBound/2 + nExcl) / total)
	default:
		v = nFree / total
	}
	f.freedom[h] = v
	return v, nil
}

// ClearFreedom drops the freedom memo, forcing recomputation on the next
// Freedom call. The rotamer and collision caches are left intact.
func (f *Finder) ClearFreedom() {
	f.freedom = make(map[int]float64)
}

// Crowdedness returns the fraction of the residue's rotamer probability
// mass pruned upfront by backbone clash.
func (f *Finder) Crowdedness(res *pdb.Residue) float64 {
	h, ok := f.handle(res)
	if !ok {
		return 0
	}
	rc := f.buildRotamers(h)
	if rc.libWeight <= 0 {
		return 0
	}
	return rc.prunedMass / rc.libWeight
}

// WeightOfAvailableRotamers returns the total a-priori probability mass of
// the residue's library rotamers: the normalization constant of its
// contact degrees.
func (f *Finder) WeightOfAvailableRotamers(res *pdb.Residue) float64 {
	h, ok := f.handle(res)
	if !ok {
		return 0
	}
	return f.buildRotamers(h).libWeight
}

// OpenLog starts an audit log of rotamer accept/reject decisions, one line
// per decision. With appendMode the file is appended to, otherwise it is
// overwritten. An already open log is closed first. The log's life cycle
// is independent of the caches; closing it loses nothing.
func (f *Finder) OpenLog(fileName string, appendMode bool) error {
	if err := f.CloseLog(); err != nil {
		return err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(fileName, flags, 0666)
	if err != nil {
		return fmt.Errorf("Could not open rotamer log '%s': %s",
			fileName, err)
	}
	f.logFile = file
	return nil
}

// CloseLog closes the audit log. Closing a log that was never opened, or
// closing twice, is a no-op.
func (f *Finder) CloseLog() error {
	if f.logFile == nil {
		return nil
	}
	err := f.logFile.Close()
	f.logFile = nil
	return err
}

// logRotamer records one accept/reject decision. Writes after CloseLog
// are safe no-ops.
func (f *Finder) logRotamer(res *pdb.Residue, rot rotlib.Rotamer, accepted bool, weight float64) {
	if f.logFile == nil {
		return
	}
	verdict := "REJECT"
	if accepted {
		verdict = "ACCEPT"
	}
	fmt.Fprintf(f.logFile, "%s rot %d %s w=%g\n",
		res, rot.Index, verdict, weight)
}
