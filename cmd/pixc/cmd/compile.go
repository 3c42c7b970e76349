package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aurelsys/pixc/internal/codegen"
	pixcerrors "github.com/aurelsys/pixc/internal/errors"
	"github.com/aurelsys/pixc/internal/lexer"
	"github.com/aurelsys/pixc/internal/parser"
	"github.com/spf13/cobra"
)

var (
	compileOutput  string
	compileVerbose bool
	compileContext int
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a PixIR-source file to PixIR assembly",
	Long: `Compile a PixIR-source program straight through lexing, parsing,
semantic analysis, and code generation, writing the resulting PixIR
assembly text to a file.

Examples:
  # Compile a program, writing program.pixir
  pixc compile program.pix

  # Compile with a custom output path
  pixc compile program.pix -o out.pixir`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default: <input>.pixir)")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
	compileCmd.Flags().IntVarP(&compileContext, "context", "C", 0, "lines of source context to show around an error")
}

// reportCompileError prints cerr to stderr, expanding to surrounding source
// context when -C/--context was given.
func reportCompileError(cerr *pixcerrors.CompilerError) {
	if compileContext > 0 {
		fmt.Fprintln(os.Stderr, cerr.FormatWithContext(compileContext, true))
		return
	}
	fmt.Fprintln(os.Stderr, cerr.Format(true))
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input := string(content)

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	toks, lexErr := lexer.New(input).Tokenize()
	if lexErr != nil {
		reportCompileError(pixcerrors.FromPhaseError(lexErr, input, filename))
		return fmt.Errorf("lexing failed")
	}

	prog, parseErr := parser.Parse(toks)
	if parseErr != nil {
		reportCompileError(pixcerrors.FromPhaseError(parseErr, input, filename))
		return fmt.Errorf("parsing failed")
	}

	lines, genErr := codegen.Generate(prog)
	if genErr != nil {
		reportCompileError(pixcerrors.FromPhaseError(genErr, input, filename))
		return fmt.Errorf("compilation failed")
	}

	outFile := compileOutput
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".pixir"
		} else {
			outFile = filename + ".pixir"
		}
	}

	output := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(outFile, []byte(output), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "PixIR written to %s (%d instructions)\n", outFile, len(lines))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
