package cmd

import (
	"fmt"
	"os"

	pixcerrors "github.com/aurelsys/pixc/internal/errors"
	"github.com/aurelsys/pixc/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEvalExpr string
	showPos     bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a PixIR-source file or expression",
	Long: `Tokenize a PixIR-source program and print the resulting token stream.

Examples:
  # Tokenize a source file
  pixc lex program.pix

  # Tokenize an inline expression
  pixc lex -e "let x:int = 1 + 2;"

  # Show each token's source line
  pixc lex --show-pos program.pix`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show each token's source line")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	toks, lexErr := lexer.New(input).Tokenize()
	if lexErr != nil {
		cerr := pixcerrors.FromPhaseError(lexErr, input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("lexing failed")
	}

	for _, tok := range toks {
		if showPos {
			fmt.Printf("[%-10s] %q @%d\n", tok.Type, tok.Lexeme, tok.Line)
		} else {
			fmt.Printf("[%-10s] %q\n", tok.Type, tok.Lexeme)
		}
	}
	return nil
}

// readSource resolves the input either from an inline -e/--eval expression
// or from a file argument; the lex and parse subcommands share it.
func readSource(eval string, args []string) (input, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
