package main

import (
	"bytes"
	"flag"
	"fmt"
	"sync"
	"text/tabwriter"

	"github.com/kaymccoy/Mosaist/cmd/util"
	"github.com/kaymccoy/Mosaist/contact"
	"github.com/kaymccoy/Mosaist/pdb"
	"github.com/kaymccoy/Mosaist/rotlib"
)

var (
	flagReport = "contacts"
	flagCdcut  = 0.01
	flagIncut  = 0.01
	flagBBDcut = 6.0
	flagFlank  = 1
	flagSel    = ""
	flagRotLog = ""
	flagSorted = false
)

func init() {
	flag.StringVar(&flagReport, "report", flagReport,
		"The report to produce. Valid values are 'contacts', 'freedom',\n"+
			"'crowdedness', 'interference' and 'bb'.")
	flag.Float64Var(&flagCdcut, "cdcut", flagCdcut,
		"Only contacts with a degree above this value are reported.")
	flag.Float64Var(&flagIncut, "incut", flagIncut,
		"Only interference values above this value are reported.")
	flag.Float64Var(&flagBBDcut, "bb-dcut", flagBBDcut,
		"The backbone atom distance cutoff (Angstroms) of the 'bb' report.")
	flag.IntVar(&flagFlank, "ignore-flanking", flagFlank,
		"Residues within this many chain positions of each other are\n"+
			"excluded from the 'bb' report.")
	flag.StringVar(&flagSel, "sel", flagSel,
		"A residue selection file with one '<chain> <number>' entry per\n"+
			"line. When given, only the selected residues are reported on.")
	flag.StringVar(&flagRotLog, "rot-log", flagRotLog,
		"When set, every rotamer accept/reject decision is logged to this\n"+
			"file. Only valid with a single input file.")
	flag.BoolVar(&flagSorted, "sorted", flagSorted,
		"When set, contact reports are sorted by degree, highest first.")

	util.FlagUse("cpu", "verbose", "rot-lib", "config")
	util.FlagParse("pdb-file [pdb-file ...]",
		"Computes steric contact metrics for one or more PDB files: contact\n"+
			"degrees, conformational freedom, crowdedness, rotamer\n"+
			"interference or backbone interactions.")
	util.AssertLeastNArg(1)

	if len(flagRotLog) > 0 && util.NArg() > 1 {
		util.Fatalf("The -rot-log flag only works with a single input file.")
	}
}

func main() {
	var lib *rotlib.Library
	if flagReport != "bb" {
		lib = util.RotamerLibrary(util.FlagRotLib)
		util.Verbosef("Using rotamer library %s.\n", lib)
	}

	paths := flag.Args()
	results := make([]string, len(paths))
	progress := util.NewProgress(len(paths))

	jobs := make(chan int)
	wg := new(sync.WaitGroup)
	for i := 0; i < util.FlagCpu; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out, err := report(lib, paths[j])
				results[j] = out
				progress.JobDone(err)
			}
		}()
	}
	for j := range paths {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	progress.Close()

	for _, out := range results {
		fmt.Print(out)
	}
}

func report(lib *rotlib.Library, pdbPath string) (string, error) {
	entry, err := pdb.ReadPDB(pdbPath)
	if err != nil {
		return "", fmt.Errorf("Could not read PDB file '%s': %s", pdbPath, err)
	}

	finder := contact.NewFinder(lib, entry, util.FlagParams)
	if len(flagRotLog) > 0 {
		if err := finder.OpenLog(flagRotLog, false); err != nil {
			return "", err
		}
		defer func() {
			util.Warning(finder.CloseLog(),
				"Could not close rotamer log '%s'", flagRotLog)
		}()
	}

	residues := entry.Residues()
	if len(flagSel) > 0 {
		residues = util.ReadSelection(flagSel, entry)
	}

	buf := new(bytes.Buffer)
	w := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	name := entry.Name()

	switch flagReport {
	case "contacts":
		list := finder.ContactsOf(residues, flagCdcut, nil)
		if flagSorted {
			list.SortByDegree()
		}
		for i := 0; i < list.Len(); i++ {
			fmt.Fprintf(w, "%s\tcontact\t%s\t%s\t%.6f\n",
				name, list.SrcResidue(i), list.DstResidue(i), list.Degree(i))
		}
	case "freedom":
		for _, res := range residues {
			fmt.Fprintf(w, "%s\tfreedom\t%s\t%.6f\n",
				name, res, finder.Freedom(res))
		}
	case "crowdedness":
		for _, res := range residues {
			fmt.Fprintf(w, "%s\tcrowdedness\t%s\t%.6f\n",
				name, res, finder.Crowdedness(res))
		}
	case "interference":
		list := finder.Interference(residues, flagIncut, nil)
		if flagSorted {
			list.SortByDegree()
		}
		for i := 0; i < list.Len(); i++ {
			fmt.Fprintf(w, "%s\tinterference\t%s\t%s\t%.6f\n",
				name, list.SrcResidue(i), list.DstResidue(i), list.Degree(i))
		}
	case "bb":
		list := contact.NewList()
		for _, res := range residues {
			finder.BBInteractions(res, flagBBDcut, flagFlank, list)
		}
		for i := 0; i < list.Len(); i++ {
			fmt.Fprintf(w, "%s\tbb\t%s\t%s\t%.3f\n",
				name, list.SrcResidue(i), list.DstResidue(i), list.Degree(i))
		}
	default:
		util.Fatalf("Unknown report type '%s'.", flagReport)
	}

	w.Flush()
	return buf.String(), nil
}
