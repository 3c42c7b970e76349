package parser

import (
	"testing"

	"github.com/aurelsys/pixc/internal/ast"
	"github.com/aurelsys/pixc/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseSource(t, `let x : int = 5;`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "x" || decl.Type != "int" {
		t.Fatalf("unexpected decl: %+v", decl)
	}
	lit, ok := decl.Init.(*ast.IntLiteral)
	if !ok || lit.Value != 5 {
		t.Fatalf("unexpected init: %+v", decl.Init)
	}
}

func TestParseArrayDecl(t *testing.T) {
	prog := parseSource(t, `let xs : int[3] = [1, 2, 3];`)
	decl, ok := prog.Statements[0].(*ast.ArrayDecl)
	if !ok {
		t.Fatalf("expected *ast.ArrayDecl, got %T", prog.Statements[0])
	}
	if decl.Len != 3 || len(decl.Elements) != 3 {
		t.Fatalf("unexpected array decl: %+v", decl)
	}
}

func TestParseArrayDeclLengthMismatch(t *testing.T) {
	toks, err := lexer.New(`let xs : int[3] = [1, 2];`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a ParseError for a length/element-count mismatch")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parseSource(t, `__print 1 + 2 * 3;`)
	print, ok := prog.Statements[0].(*ast.Print)
	if !ok {
		t.Fatalf("expected *ast.Print, got %T", prog.Statements[0])
	}
	add, ok := print.Value.(*ast.BinaryOp)
	if !ok || add.Op != "+" {
		t.Fatalf("expected top-level '+', got %+v", print.Value)
	}
	mul, ok := add.Right.(*ast.BinaryOp)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected '*' on the right of '+', got %+v", add.Right)
	}
}

func TestParseCast(t *testing.T) {
	prog := parseSource(t, `__print 1 as float;`)
	print := prog.Statements[0].(*ast.Print)
	if print.Value.CastType() != "float" {
		t.Fatalf("expected cast type float, got %q", print.Value.CastType())
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseSource(t, `if (1 > 0) { __print 1; } else { __print 0; }`)
	ifStmt, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("expected an else block")
	}
}

func TestParseWhile(t *testing.T) {
	prog := parseSource(t, `let x:int = 0; while (x < 3) { x = x + 1; }`)
	if _, ok := prog.Statements[1].(*ast.While); !ok {
		t.Fatalf("expected *ast.While, got %T", prog.Statements[1])
	}
}

func TestParseFor(t *testing.T) {
	prog := parseSource(t, `for (let i:int = 0; i < 10; i = i + 1) { __print i; }`)
	forStmt, ok := prog.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Statements[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Incr == nil {
		t.Fatalf("expected all three for-clauses present: %+v", forStmt)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parseSource(t, `fun f(x:int) -> int { return x + 1; } __print f(5);`)
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "f" || len(fn.Params) != 1 || fn.Params[0].Name != "x" || fn.ReturnType != "int" {
		t.Fatalf("unexpected function decl: %+v", fn)
	}
	print := prog.Statements[1].(*ast.Print)
	call, ok := print.Value.(*ast.Call)
	if !ok || call.Callee != "f" || len(call.Args) != 1 {
		t.Fatalf("unexpected call: %+v", print.Value)
	}
}

func TestParseDuplicateParamsRejected(t *testing.T) {
	toks, err := lexer.New(`fun f(x:int, x:int) -> int { return x; }`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a ParseError for a duplicate parameter name")
	}
}

func TestParseWriteAndWriteBox(t *testing.T) {
	prog := parseSource(t, `__write 1, 2, #FF0000; __write_box 1, 2, 3, 4, #00FF00;`)
	if _, ok := prog.Statements[0].(*ast.Write); !ok {
		t.Fatalf("expected *ast.Write, got %T", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.WriteBox); !ok {
		t.Fatalf("expected *ast.WriteBox, got %T", prog.Statements[1])
	}
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	toks, err := lexer.New(`let x : int = 5`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a ParseError for a missing ';'")
	}
}

func TestParseArrayIndexAssignment(t *testing.T) {
	prog := parseSource(t, `let xs : int[2] = [1, 2]; xs[0] = 9;`)
	assign, ok := prog.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", prog.Statements[1])
	}
	if assign.Index == nil {
		t.Fatal("expected a non-nil array index on the assignment")
	}
}

func TestParseOverflowingIntLiteralIsParseError(t *testing.T) {
	toks, err := lexer.New(`__print 99999999999999999999;`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, parseErr := Parse(toks)
	if parseErr == nil {
		t.Fatal("expected a ParseError for an out-of-range integer literal")
	}
	perr, ok := parseErr.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", parseErr)
	}
	if perr.Line != 1 {
		t.Fatalf("expected the error to carry the literal's source line, got %d", perr.Line)
	}
}

func TestParseOverflowingArrayLengthIsParseError(t *testing.T) {
	toks, err := lexer.New(`let xs : int[99999999999999999999] = [1];`).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, parseErr := Parse(toks)
	if parseErr == nil {
		t.Fatal("expected a ParseError for an out-of-range array length")
	}
	if _, ok := parseErr.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", parseErr)
	}
}
