// Command undoredo drives the undo manager: it plays the colored-light demo
// and runs Lua scripts against a configured manager.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
