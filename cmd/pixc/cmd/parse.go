package cmd

import (
	"fmt"
	"os"

	"github.com/aurelsys/pixc/internal/ast"
	pixcerrors "github.com/aurelsys/pixc/internal/errors"
	"github.com/aurelsys/pixc/internal/lexer"
	"github.com/aurelsys/pixc/internal/parser"
	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a PixIR-source file and print its top-level statements",
	Long: `Lex and parse a PixIR-source program, printing the top-level
statement shape of the resulting AST. Useful for debugging the grammar
without running semantic analysis or code generation.

Examples:
  pixc parse program.pix
  pixc parse -e "let x:int = 1;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEvalExpr, args)
	if err != nil {
		return err
	}

	toks, lexErr := lexer.New(input).Tokenize()
	if lexErr != nil {
		cerr := pixcerrors.FromPhaseError(lexErr, input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("lexing failed")
	}

	prog, parseErr := parser.Parse(toks)
	if parseErr != nil {
		cerr := pixcerrors.FromPhaseError(parseErr, input, filename)
		fmt.Fprintln(os.Stderr, cerr.Format(true))
		return fmt.Errorf("parsing failed")
	}

	for _, stmt := range prog.Statements {
		printStmt(stmt, 0)
	}
	return nil
}

func printStmt(stmt ast.Stmt, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Printf("%sline %d: %s\n", indent, stmt.Line(), stmt.TokenLiteral())

	switch s := stmt.(type) {
	case *ast.Block:
		for _, inner := range s.Statements {
			printStmt(inner, depth+1)
		}
	case *ast.If:
		for _, inner := range s.Then.Statements {
			printStmt(inner, depth+1)
		}
		if s.Else != nil {
			for _, inner := range s.Else.Statements {
				printStmt(inner, depth+1)
			}
		}
	case *ast.While:
		for _, inner := range s.Body.Statements {
			printStmt(inner, depth+1)
		}
	case *ast.For:
		for _, inner := range s.Body.Statements {
			printStmt(inner, depth+1)
		}
	case *ast.FunctionDecl:
		for _, inner := range s.Body.Statements {
			printStmt(inner, depth+1)
		}
	}
}
