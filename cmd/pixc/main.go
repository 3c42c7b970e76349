// Command pixc compiles PixIR-source programs to PixIR assembly.
package main

import (
	"fmt"
	"os"

	"github.com/aurelsys/pixc/cmd/pixc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
