package semantic

import (
	"fmt"

	"github.com/aurelsys/pixc/internal/ast"
)

// Type name constants, matching the four scalar types the language knows.
const (
	TypeInt   = "int"
	TypeFloat = "float"
	TypeBool  = "bool"
	TypeColor = "color"
)

// SemanticError reports a type mismatch, undeclared name, duplicate
// declaration, incomplete return coverage, or other scope/type violation.
type SemanticError struct {
	Line    int
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func errf(line int, format string, args ...interface{}) error {
	return &SemanticError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Analyzer is an AST visitor that type-checks a program, tracking scopes in
// its SymbolTable. It does not annotate the AST; the code generator builds
// its own symbol table rather than reusing this one.
type Analyzer struct {
	Table       *SymbolTable
	returnStack []string // enclosing function return types, innermost last
}

// NewAnalyzer returns an Analyzer with a fresh, global-only symbol table.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Table: NewSymbolTable()}
}

// Analyze type-checks prog in place, returning the first SemanticError.
func (a *Analyzer) Analyze(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if err := a.visitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func isNumeric(t string) bool { return t == TypeInt || t == TypeFloat }

func isScalarType(t string) bool {
	return t == TypeInt || t == TypeFloat || t == TypeBool || t == TypeColor
}

// --- Statements --------------------------------------------------------

func (a *Analyzer) visitStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return a.visitVarDecl(s)
	case *ast.ArrayDecl:
		return a.visitArrayDecl(s)
	case *ast.Assignment:
		return a.visitAssignment(s)
	case *ast.Print:
		_, err := a.visitPrintLike(s.Value)
		return err
	case *ast.Delay:
		t, err := a.visitExpr(s.Value)
		if err != nil {
			return err
		}
		if !isNumeric(t) {
			return errf(s.Line(), "__delay requires a numeric argument, got %s", t)
		}
		return nil
	case *ast.Write:
		return a.visitWrite(s)
	case *ast.WriteBox:
		return a.visitWriteBox(s)
	case *ast.If:
		return a.visitIf(s)
	case *ast.While:
		return a.visitWhile(s)
	case *ast.For:
		return a.visitFor(s)
	case *ast.Return:
		return a.visitReturn(s)
	case *ast.FunctionDecl:
		return a.visitFunctionDecl(s)
	case *ast.Block:
		a.Table.PushScope(ScopeBlock)
		defer a.Table.PopScope()
		for _, inner := range s.Statements {
			if err := a.visitStmt(inner); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(stmt.Line(), "unhandled statement type %T", stmt)
	}
}

func (a *Analyzer) visitPrintLike(e ast.Expr) (string, error) {
	t, err := a.visitExpr(e)
	if err != nil {
		return "", err
	}
	if !isScalarType(t) {
		return "", errf(e.Line(), "__print requires a scalar type, got %s", t)
	}
	return t, nil
}

func (a *Analyzer) visitVarDecl(s *ast.VarDecl) error {
	if a.Table.IsDeclaredInCurrentScope(s.Name) {
		return errf(s.Line(), "%q already declared in this scope", s.Name)
	}
	if a.Table.InFunctionScope() {
		if fn := a.Table.nearestFunctionScope(); fn != nil {
			if _, ok := fn.Symbols[s.Name]; ok {
				return errf(s.Line(), "%q clashes with a parameter name", s.Name)
			}
		}
	}
	initType, err := a.visitExpr(s.Init)
	if err != nil {
		return err
	}
	if initType != s.Type {
		return errf(s.Line(), "variable %q declared as %s but initialised with %s", s.Name, s.Type, initType)
	}
	return a.Table.AddSymbol(s.Name, &Symbol{Kind: SymVariable, Type: s.Type})
}

func (a *Analyzer) visitArrayDecl(s *ast.ArrayDecl) error {
	if a.Table.IsDeclaredInCurrentScope(s.Name) {
		return errf(s.Line(), "%q already declared in this scope", s.Name)
	}
	for _, elem := range s.Elements {
		t, err := a.visitExpr(elem)
		if err != nil {
			return err
		}
		if t != s.ElemType {
			return errf(elem.Line(), "array %q declared as %s[] but element has type %s", s.Name, s.ElemType, t)
		}
	}
	if s.Len >= 0 && s.Len != len(s.Elements) {
		return errf(s.Line(), "array %q declared with length %d but has %d elements", s.Name, s.Len, len(s.Elements))
	}
	return a.Table.AddSymbol(s.Name, &Symbol{Kind: SymVariable, Type: s.ElemType, ArrayLen: len(s.Elements)})
}

func (a *Analyzer) visitAssignment(s *ast.Assignment) error {
	sym, ok := a.Table.Lookup(s.Name, false)
	if !ok {
		return errf(s.Line(), "undeclared variable %q", s.Name)
	}
	valueType, err := a.visitExpr(s.Value)
	if err != nil {
		return err
	}
	if s.Index != nil {
		if sym.ArrayLen == 0 {
			return errf(s.Line(), "%q is not an array", s.Name)
		}
		idxType, err := a.visitExpr(s.Index)
		if err != nil {
			return err
		}
		if idxType != TypeInt {
			return errf(s.Index.Line(), "array index must be int, got %s", idxType)
		}
	}
	if valueType != sym.Type {
		return errf(s.Line(), "cannot assign %s to %q of type %s", valueType, s.Name, sym.Type)
	}
	return nil
}

func (a *Analyzer) visitWrite(s *ast.Write) error {
	x, err := a.visitExpr(s.X)
	if err != nil {
		return err
	}
	y, err := a.visitExpr(s.Y)
	if err != nil {
		return err
	}
	c, err := a.visitExpr(s.Color)
	if err != nil {
		return err
	}
	if x != TypeInt || y != TypeInt || c != TypeColor {
		return errf(s.Line(), "__write requires (int, int, color), got (%s, %s, %s)", x, y, c)
	}
	return nil
}

func (a *Analyzer) visitWriteBox(s *ast.WriteBox) error {
	types := make([]string, 5)
	exprs := []ast.Expr{s.X, s.Y, s.W, s.H, s.Color}
	for i, e := range exprs {
		t, err := a.visitExpr(e)
		if err != nil {
			return err
		}
		types[i] = t
	}
	if types[0] != TypeInt || types[1] != TypeInt || types[2] != TypeInt || types[3] != TypeInt || types[4] != TypeColor {
		return errf(s.Line(), "__write_box requires (int, int, int, int, color), got (%s, %s, %s, %s, %s)",
			types[0], types[1], types[2], types[3], types[4])
	}
	return nil
}

func (a *Analyzer) visitIf(s *ast.If) error {
	condType, err := a.visitExpr(s.Cond)
	if err != nil {
		return err
	}
	if condType != TypeBool {
		return errf(s.Cond.Line(), "if condition must be bool, got %s", condType)
	}
	if err := a.visitStmt(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		if err := a.visitStmt(s.Else); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) visitWhile(s *ast.While) error {
	condType, err := a.visitExpr(s.Cond)
	if err != nil {
		return err
	}
	if condType != TypeBool {
		return errf(s.Cond.Line(), "while condition must be bool, got %s", condType)
	}
	return a.visitStmt(s.Body)
}

func (a *Analyzer) visitFor(s *ast.For) error {
	a.Table.PushScope(ScopeBlock)
	defer a.Table.PopScope()

	if s.Init != nil {
		if err := a.visitStmt(s.Init); err != nil {
			return err
		}
		if t, ok := a.forClauseType(s.Init); ok && t != TypeInt {
			return errf(s.Init.Line(), "for-loop init must have type int, got %s", t)
		}
	}
	if s.Cond != nil {
		condType, err := a.visitExpr(s.Cond)
		if err != nil {
			return err
		}
		if condType != TypeBool {
			return errf(s.Cond.Line(), "for condition must be bool, got %s", condType)
		}
	}
	if s.Incr != nil {
		if err := a.visitStmt(s.Incr); err != nil {
			return err
		}
		if t, ok := a.forClauseType(s.Incr); ok && t != TypeInt {
			return errf(s.Incr.Line(), "for-loop increment must evaluate to int, got %s", t)
		}
	}
	// The body gets its own nested block scope, matching an ordinary block.
	return a.visitStmt(s.Body)
}

// forClauseType reports the resulting variable's type for a for-loop's init
// or increment clause, which the grammar restricts to a let or assignment.
func (a *Analyzer) forClauseType(stmt ast.Stmt) (string, bool) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return s.Type, true
	case *ast.Assignment:
		if sym, ok := a.Table.Lookup(s.Name, false); ok {
			return sym.Type, true
		}
	}
	return "", false
}

func (a *Analyzer) visitReturn(s *ast.Return) error {
	if !a.Table.InFunctionScope() {
		return errf(s.Line(), "return outside of a function")
	}
	valueType, err := a.visitExpr(s.Value)
	if err != nil {
		return err
	}
	want := a.returnStack[len(a.returnStack)-1]
	if valueType != want {
		return errf(s.Line(), "return type %s does not match function's declared return type %s", valueType, want)
	}
	return nil
}

func (a *Analyzer) visitFunctionDecl(s *ast.FunctionDecl) error {
	if a.Table.CurrentScopeKind() != ScopeGlobal {
		return errf(s.Line(), "function declarations are only allowed at global scope")
	}
	if a.Table.IsDeclaredInCurrentScope(s.Name) {
		return errf(s.Line(), "function %q already declared", s.Name)
	}

	params := make([]SymbolParam, len(s.Params))
	for i, p := range s.Params {
		params[i] = SymbolParam{Name: p.Name, Type: p.Type}
	}
	if err := a.Table.AddSymbol(s.Name, &Symbol{Kind: SymFunction, Type: s.ReturnType, Params: params}); err != nil {
		return err
	}

	a.Table.PushScope(ScopeFunction)
	a.returnStack = append(a.returnStack, s.ReturnType)
	for _, p := range s.Params {
		if err := a.Table.AddSymbol(p.Name, &Symbol{Kind: SymVariable, Type: p.Type}); err != nil {
			return errf(p.Line, "duplicate parameter %q", p.Name)
		}
	}

	if err := a.visitStmt(s.Body); err != nil {
		a.Table.PopScope()
		a.returnStack = a.returnStack[:len(a.returnStack)-1]
		return err
	}
	a.Table.PopScope()
	a.returnStack = a.returnStack[:len(a.returnStack)-1]

	if !alwaysReturns(s.Body.Statements) {
		return errf(s.Line(), "function %q does not return on every path", s.Name)
	}
	return nil
}

// alwaysReturns reports whether execution of stmts is guaranteed to reach a
// return statement: either the last statement is a return, or it is an if
// whose both branches exist and each is itself guaranteed to return.
func alwaysReturns(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *ast.Return:
		return true
	case *ast.If:
		if s.Else == nil {
			return false
		}
		return alwaysReturns(s.Then.Statements) && alwaysReturns(s.Else.Statements)
	default:
		return false
	}
}

// --- Expressions ---------------------------------------------------------

func (a *Analyzer) visitExpr(expr ast.Expr) (string, error) {
	t, err := a.visitExprRaw(expr)
	if err != nil {
		return "", err
	}
	if cast := expr.CastType(); cast != "" {
		if !isScalarType(cast) {
			return "", errf(expr.Line(), "invalid cast target %q", cast)
		}
		return cast, nil
	}
	return t, nil
}

func (a *Analyzer) visitExprRaw(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return TypeInt, nil
	case *ast.FloatLiteral:
		return TypeFloat, nil
	case *ast.BoolLiteral:
		return TypeBool, nil
	case *ast.ColorLiteral:
		return TypeColor, nil
	case *ast.Variable:
		return a.visitVariable(e)
	case *ast.UnaryOp:
		return a.visitUnaryOp(e)
	case *ast.BinaryOp:
		return a.visitBinaryOp(e)
	case *ast.Call:
		return a.visitCall(e)
	case *ast.RandomInt:
		boundType, err := a.visitExpr(e.Bound)
		if err != nil {
			return "", err
		}
		if boundType != TypeInt {
			return "", errf(e.Line(), "__random_int requires int, got %s", boundType)
		}
		return TypeInt, nil
	case *ast.Read:
		xType, err := a.visitExpr(e.X)
		if err != nil {
			return "", err
		}
		yType, err := a.visitExpr(e.Y)
		if err != nil {
			return "", err
		}
		if xType != TypeInt || yType != TypeInt {
			return "", errf(e.Line(), "__read requires (int, int), got (%s, %s)", xType, yType)
		}
		return TypeInt, nil
	case *ast.Width:
		return TypeInt, nil
	case *ast.Height:
		return TypeInt, nil
	default:
		return "", errf(expr.Line(), "unhandled expression type %T", expr)
	}
}

func (a *Analyzer) visitVariable(v *ast.Variable) (string, error) {
	sym, ok := a.Table.Lookup(v.Name, false)
	if !ok {
		return "", errf(v.Line(), "undeclared variable %q", v.Name)
	}
	if v.Index != nil {
		if sym.ArrayLen == 0 {
			return "", errf(v.Line(), "%q is not an array", v.Name)
		}
		idxType, err := a.visitExpr(v.Index)
		if err != nil {
			return "", err
		}
		if idxType != TypeInt {
			return "", errf(v.Index.Line(), "array index must be int, got %s", idxType)
		}
	}
	return sym.Type, nil
}

func (a *Analyzer) visitUnaryOp(u *ast.UnaryOp) (string, error) {
	operandType, err := a.visitExpr(u.Operand)
	if err != nil {
		return "", err
	}
	switch u.Op {
	case "not":
		if operandType != TypeBool {
			return "", errf(u.Line(), "'not' requires bool, got %s", operandType)
		}
		return TypeBool, nil
	case "-":
		if !isNumeric(operandType) {
			return "", errf(u.Line(), "unary '-' requires a numeric operand, got %s", operandType)
		}
		return operandType, nil
	default:
		return "", errf(u.Line(), "unknown unary operator %q", u.Op)
	}
}

var relationalOpSet = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
var equalityOpSet = map[string]bool{"==": true, "!=": true}
var logicalOpSet = map[string]bool{"and": true, "or": true}
var arithOpSet = map[string]bool{"+": true, "-": true, "*": true, "/": true}

func (a *Analyzer) visitBinaryOp(b *ast.BinaryOp) (string, error) {
	// Matches the code generator's right-then-left evaluation order so a
	// type error is reported against the same operand the emitted
	// instruction stream would have evaluated first.
	rightType, err := a.visitExpr(b.Right)
	if err != nil {
		return "", err
	}
	leftType, err := a.visitExpr(b.Left)
	if err != nil {
		return "", err
	}
	if leftType != rightType {
		return "", errf(b.Line(), "operator %q requires equal operand types, got %s and %s", b.Op, leftType, rightType)
	}

	switch {
	case arithOpSet[b.Op]:
		if !isNumeric(leftType) {
			return "", errf(b.Line(), "operator %q requires numeric operands, got %s", b.Op, leftType)
		}
		return leftType, nil
	case relationalOpSet[b.Op]:
		if !isNumeric(leftType) {
			return "", errf(b.Line(), "operator %q requires numeric operands, got %s", b.Op, leftType)
		}
		return TypeBool, nil
	case equalityOpSet[b.Op]:
		return TypeBool, nil
	case logicalOpSet[b.Op]:
		if leftType != TypeBool {
			return "", errf(b.Line(), "operator %q requires bool operands, got %s", b.Op, leftType)
		}
		return TypeBool, nil
	default:
		return "", errf(b.Line(), "unknown binary operator %q", b.Op)
	}
}

func (a *Analyzer) visitCall(c *ast.Call) (string, error) {
	sym, ok := a.Table.Lookup(c.Callee, true)
	if !ok {
		return "", errf(c.Line(), "undeclared function %q", c.Callee)
	}
	if len(c.Args) != len(sym.Params) {
		return "", errf(c.Line(), "function %q expects %d argument(s), got %d", c.Callee, len(sym.Params), len(c.Args))
	}
	for i, arg := range c.Args {
		argType, err := a.visitExpr(arg)
		if err != nil {
			return "", err
		}
		if argType != sym.Params[i].Type {
			return "", errf(arg.Line(), "argument %d to %q must be %s, got %s", i+1, c.Callee, sym.Params[i].Type, argType)
		}
	}
	return sym.Type, nil
}
