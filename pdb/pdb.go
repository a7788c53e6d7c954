package pdb

import (
	"fmt"
	"path"
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this package's 'init' function.
var AminoOneToThree = map[byte]string{}

func init() {
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// backboneNames are the names of the protein backbone atoms, in their
// conventional order.
var backboneNames = []string{"N", "CA", "C", "O"}

// IsBackbone returns true if the given atom name belongs to the protein
// backbone (N, CA, C or O).
func IsBackbone(name string) bool {
	switch name {
	case "N", "CA", "C", "O":
		return true
	}
	return false
}

// Entry represents a macromolecular structure: an ordered list of chains,
// each an ordered list of residues with atom coordinates. An Entry is
// usually read from a PDB file, but may also be built programmatically with
// AppendChain/AppendResidue/AppendAtom.
type Entry struct {
	Path        string
	Chains      []*Chain
	numResidues int
}

// Chain represents a protein chain or subunit. Residues are stored in
// chain order, so that chain adjacency is simply slice adjacency.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Residues []*Residue
}

// Residue is a group of atoms belonging to a single amino acid position.
//
// Every residue carries a structural index: a stable handle assigned in
// structure order, usable as a cache key by code that must not rely on
// pointer identity. The handle is a non-owning reference; it is valid only
// for as long as the owning Entry is alive and unmodified.
type Residue struct {
	Name          string
	SequenceNum   int
	InsertionCode byte
	Atoms         []Atom

	chain    *Chain
	index    int // structural index within the entry
	posChain int // position within the chain
}

// Atom represents a single ATOM record: a name and a position.
type Atom struct {
	Name string
	Het  bool
	Coords
}

// NewEntry creates an empty structure with the given name. It is meant for
// programmatic construction (e.g., in tests); use ReadPDB for files.
func NewEntry(name string) *Entry {
	return &Entry{Path: name}
}

// Name returns the base name of the entry's path with its file extension
// removed.
func (e *Entry) Name() string {
	base := path.Base(e.Path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// Chain returns the chain with the given identifier, or nil if no such
// chain exists.
func (e *Entry) Chain(ident byte) *Chain {
	for _, c := range e.Chains {
		if c.Ident == ident {
			return c
		}
	}
	return nil
}

// OneChain returns the single chain in the entry. It panics if the entry
// does not have exactly one chain.
func (e *Entry) OneChain() *Chain {
	if len(e.Chains) != 1 {
		panic(fmt.Sprintf("OneChain can only be called on PDB entries with "+
			"ONE chain. But the '%s' PDB entry has %d chains.",
			e.Path, len(e.Chains)))
	}
	return e.Chains[0]
}

// NumResidues returns the total number of residues across all chains.
func (e *Entry) NumResidues() int {
	return e.numResidues
}

// Residues returns all residues of the entry in structure order. The slice
// index of each residue equals its structural index.
func (e *Entry) Residues() []*Residue {
	rs := make([]*Residue, 0, e.numResidues)
	for _, c := range e.Chains {
		rs = append(rs, c.Residues...)
	}
	return rs
}

// Residue returns the residue with the given structural index, or nil if
// the index is out of range.
func (e *Entry) Residue(index int) *Residue {
	if index < 0 || index >= e.numResidues {
		return nil
	}
	for _, c := range e.Chains {
		if index < len(c.Residues) {
			return c.Residues[index]
		}
		index -= len(c.Residues)
	}
	return nil
}

// AppendChain adds an empty chain with the given identifier and returns it.
func (e *Entry) AppendChain(ident byte) *Chain {
	c := &Chain{Entry: e, Ident: ident}
	e.Chains = append(e.Chains, c)
	return c
}

// getOrMakeChain looks for a chain corresponding to the chain identifier.
// If one doesn't exist, it is created and appended.
func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if c := e.Chain(ident); c != nil {
		return c
	}
	return e.AppendChain(ident)
}

// renumber reassigns structural indices to all residues in structure order.
// It is called after parsing; programmatic construction through
// AppendResidue keeps indices consistent incrementally.
func (e *Entry) renumber() {
	i := 0
	for _, c := range e.Chains {
		for pos, r := range c.Residues {
			r.index = i
			r.posChain = pos
			i++
		}
	}
	e.numResidues = i
}

// AppendResidue adds an empty residue to the end of the chain and
// returns it.
func (c *Chain) AppendResidue(name string, seqNum int) *Residue {
	r := &Residue{
		Name:        name,
		SequenceNum: seqNum,
		chain:       c,
		posChain:    len(c.Residues),
		index:       c.Entry.numResidues,
	}
	c.Residues = append(c.Residues, r)
	c.Entry.numResidues++
	return r
}

// Chain returns the chain this residue belongs to.
func (r *Residue) Chain() *Chain {
	return r.chain
}

// Index returns the residue's structural index: its position in structure
// order across all chains of the owning entry.
func (r *Residue) Index() int {
	return r.index
}

// PosInChain returns the residue's position within its chain.
func (r *Residue) PosInChain() int {
	return r.posChain
}

// Prev returns the chain-previous residue, or nil if this residue starts
// its chain.
func (r *Residue) Prev() *Residue {
	if r.chain == nil || r.posChain == 0 {
		return nil
	}
	return r.chain.Residues[r.posChain-1]
}

// Next returns the chain-next residue, or nil if this residue ends its
// chain.
func (r *Residue) Next() *Residue {
	if r.chain == nil || r.posChain == len(r.chain.Residues)-1 {
		return nil
	}
	return r.chain.Residues[r.posChain+1]
}

// AppendAtom adds an atom with the given name and position to the residue.
func (r *Residue) AppendAtom(name string, c Coords) *Atom {
	r.Atoms = append(r.Atoms, Atom{Name: name, Coords: c})
	return &r.Atoms[len(r.Atoms)-1]
}

// Atom returns the first atom with the given name, or nil if the residue
// has no such atom. Structural data is frequently incomplete, so callers
// must be prepared for nil.
func (r *Residue) Atom(name string) *Atom {
	for i := range r.Atoms {
		if r.Atoms[i].Name == name {
			return &r.Atoms[i]
		}
	}
	return nil
}

// Ca returns the alpha-carbon atom of this residue, or nil if it is
// missing.
func (r *Residue) Ca() *Atom {
	return r.Atom("CA")
}

// BackboneAtoms returns the backbone atoms (N, CA, C, O) present in this
// residue. Missing backbone atoms are simply omitted.
func (r *Residue) BackboneAtoms() []*Atom {
	bb := make([]*Atom, 0, 4)
	for _, name := range backboneNames {
		if a := r.Atom(name); a != nil {
			bb = append(bb, a)
		}
	}
	return bb
}

// String formats a residue as "chain,num name", e.g. "A,12 LEU".
func (r *Residue) String() string {
	if r.chain != nil {
		return fmt.Sprintf("%c,%d %s", r.chain.Ident, r.SequenceNum, r.Name)
	}
	return fmt.Sprintf("%d %s", r.SequenceNum, r.Name)
}
