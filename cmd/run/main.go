package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/edgesim/sdk/perf"
)

// makefile runner
func main() {
	if err := bindVar(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := perf.RunPProf(executeSimulator, cfg.pprofmode, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
