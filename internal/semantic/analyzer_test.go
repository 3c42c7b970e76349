package semantic

import (
	"testing"

	"github.com/aurelsys/pixc/internal/lexer"
	"github.com/aurelsys/pixc/internal/parser"
)

func analyze(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return NewAnalyzer().Analyze(prog)
}

func TestAnalyzeValidProgram(t *testing.T) {
	src := `let x:int = 5; __print x;`
	if err := analyze(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeTypeMismatchDeclaration(t *testing.T) {
	// S8 from the spec's testable scenarios.
	if err := analyze(t, `let x:int = true;`); err == nil {
		t.Fatal("expected a SemanticError for a bool initialiser on an int declaration")
	}
}

func TestAnalyzeMissingReturnPath(t *testing.T) {
	// S7 from the spec's testable scenarios.
	src := `fun f(x:int) -> int { __print x; }`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected a SemanticError for a function missing a return on every path")
	}
}

func TestAnalyzeReturnInIfElseBothBranches(t *testing.T) {
	src := `fun f(x:int) -> int { if (x > 0) { return 1; } else { return 0; } }`
	if err := analyze(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeUndeclaredVariable(t *testing.T) {
	if err := analyze(t, `__print y;`); err == nil {
		t.Fatal("expected a SemanticError for an undeclared variable")
	}
}

func TestAnalyzeScopeDiscipline(t *testing.T) {
	src := `{ let x:int = 1; } __print x;`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected x to be unresolvable after its block ends")
	}
}

func TestAnalyzeFunctionBarrierRejectsGlobalVariable(t *testing.T) {
	src := `let g:int = 1; fun f() -> int { return g; }`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected the function barrier to hide the global variable g")
	}
}

func TestAnalyzeFunctionVisibleEverywhere(t *testing.T) {
	src := `fun f() -> int { return 1; } fun g() -> int { return f(); }`
	if err := analyze(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeFunctionInsideFunctionRejected(t *testing.T) {
	src := `fun f() -> int { fun g() -> int { return 1; } return 1; }`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected a SemanticError for a function declared inside a function")
	}
}

func TestAnalyzeCallArgCountMismatch(t *testing.T) {
	src := `fun f(x:int) -> int { return x; } __print f();`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected a SemanticError for an argument count mismatch")
	}
}

func TestAnalyzeCallArgTypeMismatch(t *testing.T) {
	src := `fun f(x:int) -> int { return x; } __print f(true);`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected a SemanticError for an argument type mismatch")
	}
}

func TestAnalyzeBinaryOpTypeMismatch(t *testing.T) {
	if err := analyze(t, `__print 1 + true;`); err == nil {
		t.Fatal("expected a SemanticError for mixed-type operands")
	}
}

func TestAnalyzeColorComparisonRejected(t *testing.T) {
	if err := analyze(t, `__print #FF0000 < #00FF00;`); err == nil {
		t.Fatal("expected color comparison with '<' to be rejected")
	}
}

func TestAnalyzeColorEqualityAllowed(t *testing.T) {
	if err := analyze(t, `__print #FF0000 == #00FF00;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeCastRestrictedToScalarTypes(t *testing.T) {
	if err := analyze(t, `__print 1 as int;`); err != nil {
		t.Fatalf("unexpected error for a valid cast: %v", err)
	}
}

func TestAnalyzeForLoopInitMustBeInt(t *testing.T) {
	src := `for (let x:bool = true; x; x = false) { __print 1; }`
	if err := analyze(t, src); err == nil {
		t.Fatal("expected a SemanticError for a non-int for-loop init")
	}
}

func TestAnalyzeWriteArgumentTypes(t *testing.T) {
	if err := analyze(t, `__write 1, 2, #FF00AA;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := analyze(t, `__write 1, 2, 3;`); err == nil {
		t.Fatal("expected a SemanticError when the color argument is not a color")
	}
}
