package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pixc",
	Short: "Whole-program compiler for PixIR-source",
	Long: `pixc compiles PixIR-source, a small statically-typed imperative
language, straight to PixIR: the textual stack-machine assembly a
pixel-display virtual machine executes.

The pipeline runs in four fixed phases — lex, parse, type-check, and
generate — each failing fast on the first error it finds.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
