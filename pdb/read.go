package pdb

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// ReadPDB creates a new Entry from a PDB file. If the file cannot be read,
// or there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
//
// Only ATOM records are loaded; HETATM records and everything else are
// ignored. Alternate locations other than ' ' and 'A' are skipped, so each
// atom appears at most once per residue.
func ReadPDB(fileName string) (*Entry, error) {
	var reader io.Reader

	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	reader = f

	// If the file is gzipped, use the gzip decompressor.
	if path.Ext(fileName) == ".gz" {
		gr, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		reader = gr
	}

	entry, err := Read(reader)
	if err != nil {
		return nil, err
	}
	entry.Path = fileName
	return entry, nil
}

// Read parses PDB ATOM records from the given reader into an Entry.
func Read(reader io.Reader) (*Entry, error) {
	entry := NewEntry("")

	breader := bufio.NewReaderSize(reader, 1000)
	for {
		// We ignore 'isPrefix' here, since we never care about lines longer
		// than 1000 characters, which is the size of our buffer.
		line, _, err := breader.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(line) < 6 {
			continue
		}

		// The record name is always in the first six columns.
		switch strings.TrimSpace(string(line[0:6])) {
		case "ATOM":
			entry.parseAtom(line)
		case "ENDMDL":
			// Multiple models repeat the same residues; only the first
			// model is kept.
			entry.renumber()
			return entry, nil
		}
	}

	entry.renumber()
	return entry, nil
}

// parseAtom loads all pertinent information from an ATOM record: atom name,
// alternate location, residue name, chain, residue sequence number,
// insertion code and coordinates. Records that cannot be parsed, or that do
// not correspond to an amino acid residue, are silently skipped; PDB files
// are frequently incomplete and partially malformed.
func (e *Entry) parseAtom(line []byte) {
	if len(line) < 54 {
		return
	}

	// The residue name is in columns 18-20. Skip anything that isn't an
	// amino acid (waters, ligands, nucleotides).
	resName := strings.TrimSpace(string(line[17:20]))
	if _, ok := AminoThreeToOne[resName]; !ok {
		return
	}

	// Alternate location indicator is column 17. Keeping only ' ' and 'A'
	// guarantees one position per atom.
	if alt := line[16]; alt != ' ' && alt != 'A' {
		return
	}

	atomName := strings.TrimSpace(string(line[12:16]))
	chainIdent := line[21]

	seqNum, err := strconv.Atoi(strings.TrimSpace(string(line[22:26])))
	if err != nil {
		return
	}
	icode := line[26]

	x, errx := strconv.ParseFloat(strings.TrimSpace(string(line[30:38])), 64)
	y, erry := strconv.ParseFloat(strings.TrimSpace(string(line[38:46])), 64)
	z, errz := strconv.ParseFloat(strings.TrimSpace(string(line[46:54])), 64)
	if errx != nil || erry != nil || errz != nil {
		return
	}

	chain := e.getOrMakeChain(chainIdent)

	// ATOM records for a residue are contiguous, so it suffices to look at
	// the last residue of the chain.
	var res *Residue
	if n := len(chain.Residues); n > 0 {
		last := chain.Residues[n-1]
		if last.SequenceNum == seqNum && last.InsertionCode == icode &&
			last.Name == resName {
			res = last
		}
	}
	if res == nil {
		res = chain.AppendResidue(resName, seqNum)
		res.InsertionCode = icode
	}

	// Duplicate atom names within a residue (e.g. from unlabeled alternate
	// locations) keep the first occurrence.
	if res.Atom(atomName) != nil {
		return
	}
	res.AppendAtom(atomName, Coords{x, y, z})
}
