package contact

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// Freedom formula selectors. All three classify each rotamer's accumulated
// collision probability into three zones using the low and high cutoffs
// (free below the low cutoff, boundary between the cutoffs, excluded at or
// above the high cutoff) and differ only in how the zone counts are
// aggregated into a single scalar.
const (
	// FreedomFreeFraction is the fraction of the residue's library
	// rotamers that remain in the free zone.
	FreedomFreeFraction = 1

	// FreedomSoftFraction counts boundary rotamers at half weight:
	// (free + boundary/2) / total.
	FreedomSoftFraction = 2

	// FreedomExponential is exp(-(boundary/2 + excluded) / total), which
	// decays smoothly as the environment crowds the position.
	FreedomExponential = 3
)

// Params holds the static configuration of a Finder. It is set once at
// construction; the Finder never mutates it.
//
// Invalid values (negative distances, inverted cutoffs) are the caller's
// responsibility and are not actively validated: the engine's arithmetic
// is well defined for any finite values, just not meaningful.
type Params struct {
	// DCut is the CA-CA distance cutoff beyond which two residues are not
	// considered to interact at all.
	DCut float64

	// ClashDist is the inter-atomic distance below which a side-chain atom
	// counts as clashing with a backbone atom.
	ClashDist float64

	// ContDist is the inter-atomic distance below which two side-chain
	// atoms from different rotamers count as being in contact.
	ContDist float64

	// LoCollProbCut and HiCollProbCut are the collision-probability
	// cutoffs bounding the boundary zone of the freedom computation.
	LoCollProbCut float64
	HiCollProbCut float64

	// FreedomType selects the freedom formula; see the Freedom* constants.
	FreedomType int

	// CountCB makes CB count as a side-chain atom. Regardless of this
	// flag, CB always counts for alanine, which has no other side-chain
	// atom.
	CountCB bool

	// AminoAcids lists the amino acid types whose rotamers are considered.
	// Glycine and proline are excluded: neither has independent rotamers.
	AminoAcids []string

	// Propensity maps amino acid types to their occurrence propensities
	// (in percent). Types absent from the map get a weight of zero.
	Propensity map[string]float64
}

// defaultAminoAcids is every canonical amino acid except GLY and PRO.
var defaultAminoAcids = []string{
	"ALA", "ARG", "ASN", "ASP", "CYS", "GLU", "GLN", "HIS", "ILE",
	"LEU", "LYS", "MET", "PHE", "SER", "THR", "TRP", "TYR", "VAL",
}

// defaultPropensity holds canonical amino-acid occurrence frequencies in
// percent.
var defaultPropensity = map[string]float64{
	"ALA": 7.7, "ARG": 5.1, "ASN": 4.3, "ASP": 5.2, "CYS": 1.6,
	"GLU": 6.2, "GLN": 4.1, "GLY": 7.2, "HIS": 2.3, "ILE": 5.3,
	"LEU": 9.0, "LYS": 5.9, "MET": 2.4, "PHE": 3.9, "PRO": 5.1,
	"SER": 6.8, "THR": 5.9, "TRP": 1.3, "TYR": 3.2, "VAL": 6.6,
}

// DefaultParams returns the standard engine configuration: 25 Å neighbor
// pruning, 2 Å backbone clash distance, 3 Å rotamer contact distance,
// collision-probability cutoffs of 0.5 and 2.0, and the free-fraction
// freedom formula.
func DefaultParams() Params {
	prop := make(map[string]float64, len(defaultPropensity))
	for aa, p := range defaultPropensity {
		prop[aa] = p
	}
	return Params{
		DCut:          25.0,
		ClashDist:     2.0,
		ContDist:      3.0,
		LoCollProbCut: 0.5,
		HiCollProbCut: 2.0,
		FreedomType:   FreedomFreeFraction,
		CountCB:       false,
		AminoAcids:    append([]string(nil), defaultAminoAcids...),
		Propensity:    prop,
	}
}

// ExampleConfigFile documents the on-disk configuration format understood
// by ReadParams.
const ExampleConfigFile = `[ConFind]

# CA-CA distance cutoff (Angstroms) beyond which residue pairs are ignored.
DCut = 25.0

# Side-chain to backbone clash distance (Angstroms).
ClashDist = 2.0

# Side-chain to side-chain contact distance (Angstroms).
ContDist = 3.0

# Collision-probability cutoffs bounding the boundary zone of the freedom
# computation.
LoCollProbCut = 0.5
HiCollProbCut = 2.0

# Freedom formula: 1 = free fraction, 2 = soft fraction, 3 = exponential.
FreedomType = 1

# Count CB as a side-chain atom (always counted for ALA).
CountCB = false`

// configFile mirrors the gcfg layout of a parameter file.
type configFile struct {
	ConFind struct {
		DCut          float64
		ClashDist     float64
		ContDist      float64
		LoCollProbCut float64
		HiCollProbCut float64
		FreedomType   int
		CountCB       bool
	}
}

// ReadParams reads engine parameters from a gcfg-style configuration file,
// using DefaultParams for everything the file does not set.
func ReadParams(fileName string) (Params, error) {
	def := DefaultParams()

	var conf configFile
	conf.ConFind.DCut = def.DCut
	conf.ConFind.ClashDist = def.ClashDist
	conf.ConFind.ContDist = def.ContDist
	conf.ConFind.LoCollProbCut = def.LoCollProbCut
	conf.ConFind.HiCollProbCut = def.HiCollProbCut
	conf.ConFind.FreedomType = def.FreedomType
	conf.ConFind.CountCB = def.CountCB

	if err := gcfg.ReadFileInto(&conf, fileName); err != nil {
		return Params{}, fmt.Errorf("Could not read parameter file '%s': %s",
			fileName, err)
	}

	def.DCut = conf.ConFind.DCut
	def.ClashDist = conf.ConFind.ClashDist
	def.ContDist = conf.ConFind.ContDist
	def.LoCollProbCut = conf.ConFind.LoCollProbCut
	def.HiCollProbCut = conf.ConFind.HiCollProbCut
	def.FreedomType = conf.ConFind.FreedomType
	def.CountCB = conf.ConFind.CountCB
	return def, nil
}
