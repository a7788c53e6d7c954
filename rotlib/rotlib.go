// Package rotlib provides discrete side-chain rotamer libraries: for each
// amino acid type, a fixed list of candidate side-chain conformations, each
// with heavy-atom coordinates in a canonical backbone frame and a
// statistical usage propensity.
//
// The canonical frame has its origin at the alpha carbon, its x axis
// pointing toward the backbone nitrogen, and its x-y plane containing the
// backbone carbonyl carbon. Placing a rotamer onto a real residue is a
// rigid transformation of the stored coordinates onto the frame built from
// that residue's N, CA and C atoms.
package rotlib

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/kaymccoy/Mosaist/pdb"
)

// NamedCoord is an atom name with a position.
type NamedCoord struct {
	Name string
	pdb.Coords
}

// Rotamer is a single discrete side-chain conformation of an amino acid
// type. Atoms holds the heavy side-chain atoms (CB and beyond) in the
// canonical backbone frame. Propensity is the statistical weight with which
// this conformation occurs; propensities of the rotamers of one amino acid
// need not sum to one.
type Rotamer struct {
	AA         string
	Index      int
	Propensity float64
	Atoms      []NamedCoord
}

// Library is a read-only collection of rotamers grouped by amino acid
// type. A Library is safe for concurrent readers.
type Library struct {
	path     string
	rotamers map[string][]Rotamer
}

// NewLibrary reads a rotamer library from a plain-text file. The format is
// line based:
//
//	ROT <aa> <index> <propensity>
//	ATOM <name> <x> <y> <z>
//	...
//
// where each ROT line starts a rotamer and the ATOM lines that follow list
// its side-chain atoms in the canonical frame. Blank lines and lines
// starting with '#' are ignored. Rotamer indices must start at 1 and be
// contiguous within each amino acid.
//
// Any read or parse failure is returned immediately; a library that cannot
// be loaded is unusable, so there is no partial-success mode.
func NewLibrary(fileName string) (*Library, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lib := &Library{
		path:     fileName,
		rotamers: make(map[string][]Rotamer),
	}

	var cur *Rotamer
	lineNum := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "ROT":
			if cur != nil {
				lib.append(*cur)
			}
			if len(fields) != 4 {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"is a ROT record with %d fields, but 4 are required.",
					lineNum, fileName, len(fields))
			}
			index, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"has an unparseable rotamer index '%s': %s",
					lineNum, fileName, fields[2], err)
			}
			prop, err := strconv.ParseFloat(fields[3], 64)
			if err != nil || prop < 0 {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"has an invalid propensity '%s'.",
					lineNum, fileName, fields[3])
			}
			cur = &Rotamer{
				AA:         strings.ToUpper(fields[1]),
				Index:      index,
				Propensity: prop,
			}
		case "ATOM":
			if cur == nil {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"is an ATOM record outside of any ROT record.",
					lineNum, fileName)
			}
			if len(fields) != 5 {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"is an ATOM record with %d fields, but 5 are required.",
					lineNum, fileName, len(fields))
			}
			x, errx := strconv.ParseFloat(fields[2], 64)
			y, erry := strconv.ParseFloat(fields[3], 64)
			z, errz := strconv.ParseFloat(fields[4], 64)
			if errx != nil || erry != nil || errz != nil {
				return nil, fmt.Errorf("Line %d of rotamer library '%s' "+
					"has unparseable coordinates.", lineNum, fileName)
			}
			cur.Atoms = append(cur.Atoms, NamedCoord{
				Name:   fields[1],
				Coords: pdb.Coords{X: x, Y: y, Z: z},
			})
		default:
			return nil, fmt.Errorf("Line %d of rotamer library '%s' has "+
				"an unknown record type '%s'.", lineNum, fileName, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		lib.append(*cur)
	}

	if len(lib.rotamers) == 0 {
		return nil, fmt.Errorf("The rotamer library at '%s' does not "+
			"contain any rotamers.", fileName)
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

// NewLibraryFromRotamers builds a library from an in-memory rotamer list.
// It is meant for programmatic construction (e.g., synthetic libraries in
// tests). The same contiguity rules as NewLibrary apply; violations are
// returned as an error.
func NewLibraryFromRotamers(rotamers []Rotamer) (*Library, error) {
	lib := &Library{
		path:     "(in memory)",
		rotamers: make(map[string][]Rotamer),
	}
	for _, rot := range rotamers {
		lib.append(rot)
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (lib *Library) append(rot Rotamer) {
	lib.rotamers[rot.AA] = append(lib.rotamers[rot.AA], rot)
}

// validate checks that every amino acid's rotamer numbering starts at 1
// and is contiguous, and sorts each list by index.
func (lib *Library) validate() error {
	for aa, rots := range lib.rotamers {
		sort.Slice(rots, func(i, j int) bool {
			return rots[i].Index < rots[j].Index
		})
		for i, rot := range rots {
			if rot.Index != i+1 {
				return fmt.Errorf("Rotamers must be numbered starting at 1 "+
					"and be contiguous, but amino acid %s in library '%s' "+
					"has a rotamer numbered %d at position %d.",
					aa, lib.path, rot.Index, i+1)
			}
		}
	}
	return nil
}

// NumRotamers returns the number of rotamers available for the given
// amino acid type, which is zero for types not in the library (glycine and
// proline in particular carry no independent rotamers).
func (lib *Library) NumRotamers(aa string) int {
	return len(lib.rotamers[aa])
}

// Rotamers returns the rotamers of the given amino acid type, ordered by
// index. The returned slice is owned by the library and must not be
// modified.
func (lib *Library) Rotamers(aa string) []Rotamer {
	return lib.rotamers[aa]
}

// Rotamer returns the i'th (zero-based) rotamer of the given amino acid
// type. It panics if no such rotamer exists.
func (lib *Library) Rotamer(aa string, i int) Rotamer {
	rots := lib.rotamers[aa]
	if i < 0 || i >= len(rots) {
		panic(fmt.Sprintf("Rotamer %d does not exist for amino acid %s "+
			"in library '%s'.", i, aa, lib.path))
	}
	return rots[i]
}

// AminoAcids returns the amino acid types present in the library, sorted.
func (lib *Library) AminoAcids() []string {
	aas := make([]string, 0, len(lib.rotamers))
	for aa := range lib.rotamers {
		aas = append(aas, aa)
	}
	sort.Strings(aas)
	return aas
}

// Place transforms a rotamer's canonical-frame atoms onto the backbone
// frame defined by the given N, CA and C positions, returning the placed
// atoms in world coordinates. If the three backbone atoms are (nearly)
// collinear the frame is degenerate and nil is returned; callers treat
// that as missing data.
func Place(rot Rotamer, n, ca, c pdb.Coords) []NamedCoord {
	x := n.Sub(ca).Unit()
	z := x.Cross(c.Sub(ca)).Unit()
	if x == (pdb.Coords{}) || z == (pdb.Coords{}) {
		return nil
	}
	y := z.Cross(x)

	placed := make([]NamedCoord, len(rot.Atoms))
	for i, a := range rot.Atoms {
		world := ca.
			Add(x.Scale(a.X)).
			Add(y.Scale(a.Y)).
			Add(z.Scale(a.Z))
		placed[i] = NamedCoord{Name: a.Name, Coords: world}
	}
	return placed
}

// String returns the library file's base name, the number of amino acid
// types and the total rotamer count.
func (lib *Library) String() string {
	total := 0
	for _, rots := range lib.rotamers {
		total += len(rots)
	}
	return fmt.Sprintf("%s (%d aa, %d rotamers)",
		path.Base(lib.path), len(lib.rotamers), total)
}
