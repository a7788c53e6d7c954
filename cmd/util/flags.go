package util

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/kaymccoy/Mosaist/contact"
)

var (
	FlagCpu = runtime.NumCPU()

	FlagVerbose = false

	// FlagRotLib is the path of the rotamer library file. There is no
	// sensible default; commands that use rotamers require it.
	FlagRotLib = ""

	flagConfig = ""

	// FlagParams holds the engine parameters after FlagParse: the defaults,
	// overridden by the -config file when one is given.
	FlagParams = contact.DefaultParams()
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set, init func()
	use       bool
}

var commonFlags = map[string]*commonFlag{
	"cpu": {
		set: func() {
			flag.IntVar(&FlagCpu, "cpu", FlagCpu,
				"The max number of CPUs to use.")
		},
		init: func() {
			runtime.GOMAXPROCS(FlagCpu)
		},
	},
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, progress and diagnostics are printed to stderr.")
		},
	},
	"rot-lib": {
		set: func() {
			flag.StringVar(&FlagRotLib, "rot-lib", FlagRotLib,
				"The path to the rotamer library file.")
		},
	},
	"config": {
		set: func() {
			flag.StringVar(&flagConfig, "config", flagConfig,
				"A parameter file overriding the default contact "+
					"parameters.")
		},
		init: func() {
			if len(flagConfig) > 0 {
				p, err := contact.ReadParams(flagConfig)
				Assert(err)
				FlagParams = p
			}
		},
	},
}

func FlagUse(names ...string) {
	for _, name := range names {
		commonFlags[name].use = true
	}
}

// NArg just calls `flag.NArg`. It's included here to avoid
// an extra import to `flag` just to call NArg.
func NArg() int {
	return flag.NArg()
}

func FlagParse(positional string, desc string) {
	for _, fl := range commonFlags {
		if fl.use {
			fl.set()
		}
	}

	flag.Usage = func() {
		log.Printf("Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()

	for _, fl := range commonFlags {
		if fl.use && fl.init != nil {
			fl.init()
		}
	}
}

func Verbosef(format string, v ...interface{}) {
	if FlagVerbose {
		fmt.Fprintf(os.Stderr, format, v...)
	}
}
