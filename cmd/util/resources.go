package util

import (
	"strings"

	"github.com/rmera/scu"

	"github.com/kaymccoy/Mosaist/pdb"
	"github.com/kaymccoy/Mosaist/rotlib"
)

func RotamerLibrary(path string) *rotlib.Library {
	if len(path) == 0 {
		Fatalf("A rotamer library is required; set one with -rot-lib.")
	}
	lib, err := rotlib.NewLibrary(path)
	Assert(err, "Could not open rotamer library '%s'", path)
	return lib
}

// ReadSelection reads a residue selection file: one residue per line as
// "<chain> <number>", with '#' comments and blank lines skipped. Selected
// residues missing from the structure are fatal; a selection that silently
// shrinks produces silently wrong reports.
func ReadSelection(path string, entry *pdb.Entry) []*pdb.Residue {
	f, err := scu.NewMustReadFile(path)
	Assert(err, "Could not open selection file '%s'", path)

	var residues []*pdb.Residue
	for line := f.Next(); line != "EOF"; line = f.Next() {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0][0] == '#' {
			continue
		}
		if len(fields) != 2 || len(fields[0]) != 1 {
			Fatalf("Selection file '%s' has a malformed line '%s'; "+
				"expected '<chain> <number>'.", path, line)
		}
		num := scu.MustAtoi(fields[1])

		chain := entry.Chain(fields[0][0])
		if chain == nil {
			Fatalf("Selection file '%s' names chain '%s', which is not in "+
				"'%s'.", path, fields[0], entry.Path)
		}
		var found *pdb.Residue
		for _, res := range chain.Residues {
			if res.SequenceNum == num {
				found = res
				break
			}
		}
		if found == nil {
			Fatalf("Selection file '%s' names residue %s,%d, which is not "+
				"in '%s'.", path, fields[0], num, entry.Path)
		}
		residues = append(residues, found)
	}
	return residues
}
