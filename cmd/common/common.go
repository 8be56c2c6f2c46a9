package common

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
)

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// osExit is swapped in tests.
var osExit = os.Exit

// ExitOnError prints "<name>: <err>" and exits with status 1 when err is set.
func ExitOnError(name string, err error) {
	if err == nil {
		return
	}
	exitWith(os.Stderr, name, err)
}

func exitWith(stderr io.Writer, name string, err error) {
	_, _ = fmt.Fprintf(stderr, "%s: %v\n", name, err)
	osExit(1)
}
