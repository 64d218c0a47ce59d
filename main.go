package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/SiirRandall/tuxport/internal/cli"
)

func main() {
	if isCLIMode(os.Args[1:], cli.HasDisplay()) {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := cli.ExecuteGUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCLIMode picks the terminal interface when any argument is given or no
// display is available. With no arguments and a display the window opens.
func isCLIMode(args []string, hasDisplay bool) bool {
	if slices.Contains(args, "--gui") {
		return false
	}
	if len(args) > 0 {
		return true
	}
	return !hasDisplay
}
