package codegen

import (
	"strings"
	"testing"

	"github.com/aurelsys/pixc/internal/lexer"
	"github.com/aurelsys/pixc/internal/parser"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGoldenPrograms snapshots the full PixIR output of a handful of
// representative programs, covering the spec's testable end-to-end
// scenarios in one pass rather than asserting each instruction by hand.
func TestGoldenPrograms(t *testing.T) {
	programs := map[string]string{
		"arithmetic": `__print 1 + 2 * 3;`,
		"variable":   `let x:int = 5; __print x;`,
		"conditional": `if (1 > 0) {
	__print 1;
} else {
	__print 2;
}`,
		"loop": `let total:int = 0;
for (let i:int = 0; i < 5; i = i + 1) {
	total = total + i;
}
__print total;`,
		"function": `fun square(n:int) -> int {
	return n * n;
}
__print square(7);`,
		"display": `__write_box 0, 0, __width, __height, #000000;
__write 1, 1, #FF0000;
__delay 100;`,
	}

	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			toks, err := lexer.New(src).Tokenize()
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}
			prog, err := parser.Parse(toks)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			lines, err := Generate(prog)
			if err != nil {
				t.Fatalf("generate error: %v", err)
			}
			snaps.MatchSnapshot(t, strings.Join(lines, "\n"))
		})
	}
}
