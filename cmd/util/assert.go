// Package util provides the helpers shared by the command line tools:
// common flags, fatal-on-error assertions and resource loading.
package util

import (
	"flag"
	"fmt"
	"log"
)

// Warnf writes a diagnostic line to stderr.
func Warnf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Warning reports err to stderr and returns true when err is non-nil. The
// optional arguments are a format string and its operands, printed as a
// prefix to the error.
func Warning(err error, v ...interface{}) bool {
	if err == nil {
		return false
	}
	if len(v) == 0 {
		Warnf("WARNING: %s.", err)
	} else {
		format := v[0].(string)
		Warnf("%s: %s.", fmt.Sprintf(format, v[1:]...), err)
	}
	return true
}

// Fatalf writes a diagnostic line to stderr and exits.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// Assert exits the program when err is non-nil. The optional arguments are
// a format string and its operands, printed as a prefix to the error.
func Assert(err error, v ...interface{}) {
	if err == nil {
		return
	}
	if len(v) == 0 {
		Fatalf("ERROR: %s.", err)
	} else {
		format := v[0].(string)
		Fatalf("%s: %s.", fmt.Sprintf(format, v[1:]...), err)
	}
}

// AssertLeastNArg prints the usage message and exits when fewer than n
// positional arguments were given.
func AssertLeastNArg(n int) {
	if flag.NArg() < n {
		flag.Usage()
	}
}
