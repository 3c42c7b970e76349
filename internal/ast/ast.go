// Package ast defines the Abstract Syntax Tree node types for PixIR-source.
package ast

// Node is the base interface implemented by every AST node.
type Node interface {
	// TokenLiteral returns a short description of the node for debugging.
	TokenLiteral() string
	// Line returns the 1-based source line the node started on.
	Line() int
}

// Expr is any node that produces a value. The semantic analyser and code
// generator dispatch on the concrete type with a type switch, matching the
// rest of this pipeline's style rather than an Accept/Visitor pair.
type Expr interface {
	Node
	exprNode()
	// CastType is the type name from a trailing "as T", or "" if absent.
	CastType() string
	SetCastType(t string)
}

// Stmt is any node that performs an action without itself producing a value.
type Stmt interface {
	Node
	stmtNode()
}

// baseExpr factors the Line/CastType bookkeeping shared by every expression.
type baseExpr struct {
	line int
	cast string
}

func (b *baseExpr) Line() int          { return b.line }
func (b *baseExpr) CastType() string   { return b.cast }
func (b *baseExpr) SetCastType(t string) { b.cast = t }
func (*baseExpr) exprNode()            {}

type baseStmt struct {
	line int
}

func (b *baseStmt) Line() int { return b.line }
func (*baseStmt) stmtNode()   {}

// Program is the root node: a flat sequence of top-level statements.
type Program struct {
	Statements []Stmt
}

func (p *Program) TokenLiteral() string { return "program" }
func (p *Program) Line() int {
	if len(p.Statements) > 0 {
		return p.Statements[0].Line()
	}
	return 0
}

// Block is `{ statement* }`.
type Block struct {
	baseStmt
	Statements []Stmt
}

func (b *Block) TokenLiteral() string { return "block" }

func NewBlock(line int, stmts []Stmt) *Block {
	return &Block{baseStmt: baseStmt{line: line}, Statements: stmts}
}

// --- Literals ---------------------------------------------------------

type IntLiteral struct {
	baseExpr
	Value int64
}

func (n *IntLiteral) TokenLiteral() string { return "int-literal" }

func NewIntLiteral(line int, v int64) *IntLiteral {
	return &IntLiteral{baseExpr: baseExpr{line: line}, Value: v}
}

type FloatLiteral struct {
	baseExpr
	Value float64
}

func (n *FloatLiteral) TokenLiteral() string { return "float-literal" }

func NewFloatLiteral(line int, v float64) *FloatLiteral {
	return &FloatLiteral{baseExpr: baseExpr{line: line}, Value: v}
}

type BoolLiteral struct {
	baseExpr
	Value bool
}

func (n *BoolLiteral) TokenLiteral() string { return "bool-literal" }

func NewBoolLiteral(line int, v bool) *BoolLiteral {
	return &BoolLiteral{baseExpr: baseExpr{line: line}, Value: v}
}

// ColorLiteral stores the literal's six hex digits as written in the source
// (letter case unchanged), without the leading '#'.
type ColorLiteral struct {
	baseExpr
	Hex string
}

func (n *ColorLiteral) TokenLiteral() string { return "color-literal" }

func NewColorLiteral(line int, hex string) *ColorLiteral {
	return &ColorLiteral{baseExpr: baseExpr{line: line}, Hex: hex}
}

// --- Variables and calls ----------------------------------------------

// Variable is a name reference, with an optional array index expression.
type Variable struct {
	baseExpr
	Name  string
	Index Expr // nil when not an array access
}

func (n *Variable) TokenLiteral() string { return "variable:" + n.Name }

func NewVariable(line int, name string, index Expr) *Variable {
	return &Variable{baseExpr: baseExpr{line: line}, Name: name, Index: index}
}

// Call is a function-call expression: identifier immediately followed by
// "(" and a comma-separated argument list.
type Call struct {
	baseExpr
	Callee string
	Args   []Expr
}

func (n *Call) TokenLiteral() string { return "call:" + n.Callee }

func NewCall(line int, callee string, args []Expr) *Call {
	return &Call{baseExpr: baseExpr{line: line}, Callee: callee, Args: args}
}

// --- Operators ----------------------------------------------------------

// UnaryOp is `not expr` or `- expr`.
type UnaryOp struct {
	baseExpr
	Op      string
	Operand Expr
}

func (n *UnaryOp) TokenLiteral() string { return "unary:" + n.Op }

func NewUnaryOp(line int, op string, operand Expr) *UnaryOp {
	return &UnaryOp{baseExpr: baseExpr{line: line}, Op: op, Operand: operand}
}

// BinaryOp covers the additive, multiplicative, relational, equality, and
// logical operator families. Left and Right are evaluated right-then-left
// by the code generator, not by this node's structure — the AST itself
// records them in source order.
type BinaryOp struct {
	baseExpr
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinaryOp) TokenLiteral() string { return "binary:" + n.Op }

func NewBinaryOp(line int, op string, left, right Expr) *BinaryOp {
	return &BinaryOp{baseExpr: baseExpr{line: line}, Op: op, Left: left, Right: right}
}

// --- Built-in expression forms -------------------------------------------

// RandomInt is `__random_int expr`.
type RandomInt struct {
	baseExpr
	Bound Expr
}

func (n *RandomInt) TokenLiteral() string { return "__random_int" }

func NewRandomInt(line int, bound Expr) *RandomInt {
	return &RandomInt{baseExpr: baseExpr{line: line}, Bound: bound}
}

// Read is `__read expr, expr`.
type Read struct {
	baseExpr
	X, Y Expr
}

func (n *Read) TokenLiteral() string { return "__read" }

func NewRead(line int, x, y Expr) *Read {
	return &Read{baseExpr: baseExpr{line: line}, X: x, Y: y}
}

// Width is `__width`, Height is `__height`: zero-argument built-ins that
// query the display surface.
type Width struct{ baseExpr }
type Height struct{ baseExpr }

func (n *Width) TokenLiteral() string  { return "__width" }
func (n *Height) TokenLiteral() string { return "__height" }

func NewWidth(line int) *Width   { return &Width{baseExpr{line: line, cast: ""}} }
func NewHeight(line int) *Height { return &Height{baseExpr{line: line, cast: ""}} }

// --- Declarations ---------------------------------------------------------

// VarDecl is `let name : type = expr ;`.
type VarDecl struct {
	baseStmt
	Name string
	Type string
	Init Expr
}

func (n *VarDecl) TokenLiteral() string { return "let:" + n.Name }

func NewVarDecl(line int, name, typ string, init Expr) *VarDecl {
	return &VarDecl{baseStmt: baseStmt{line: line}, Name: name, Type: typ, Init: init}
}

// ArrayDecl is `let name : type [ len? ] = [ expr, ... ] ;`. Len is -1 when
// the source omitted an explicit length.
type ArrayDecl struct {
	baseStmt
	Name     string
	ElemType string
	Len      int
	Elements []Expr
}

func (n *ArrayDecl) TokenLiteral() string { return "let[]:" + n.Name }

func NewArrayDecl(line int, name, elemType string, length int, elems []Expr) *ArrayDecl {
	return &ArrayDecl{baseStmt: baseStmt{line: line}, Name: name, ElemType: elemType, Len: length, Elements: elems}
}

// FormalParam is one `name : type` entry of a function's parameter list.
type FormalParam struct {
	Name string
	Type string
	Line int
}

// FunctionDecl is `fun name ( params ) -> type block`.
type FunctionDecl struct {
	baseStmt
	Name       string
	Params     []FormalParam
	ReturnType string
	Body       *Block
}

func (n *FunctionDecl) TokenLiteral() string { return "fun:" + n.Name }

func NewFunctionDecl(line int, name string, params []FormalParam, ret string, body *Block) *FunctionDecl {
	return &FunctionDecl{baseStmt: baseStmt{line: line}, Name: name, Params: params, ReturnType: ret, Body: body}
}

// --- Statements ----------------------------------------------------------

// Assignment is `identifier ( [ index ] )? = expression ;`.
type Assignment struct {
	baseStmt
	Name  string
	Index Expr // nil when not an array element assignment
	Value Expr
}

func (n *Assignment) TokenLiteral() string { return "assign:" + n.Name }

func NewAssignment(line int, name string, index, value Expr) *Assignment {
	return &Assignment{baseStmt: baseStmt{line: line}, Name: name, Index: index, Value: value}
}

// If is `if ( cond ) { then } ( else { else } )?`.
type If struct {
	baseStmt
	Cond Expr
	Then *Block
	Else *Block // nil when no else clause
}

func (n *If) TokenLiteral() string { return "if" }

func NewIf(line int, cond Expr, then, els *Block) *If {
	return &If{baseStmt: baseStmt{line: line}, Cond: cond, Then: then, Else: els}
}

// While is `while ( cond ) { body }`.
type While struct {
	baseStmt
	Cond Expr
	Body *Block
}

func (n *While) TokenLiteral() string { return "while" }

func NewWhile(line int, cond Expr, body *Block) *While {
	return &While{baseStmt: baseStmt{line: line}, Cond: cond, Body: body}
}

// For is `for ( init ; cond ; incr ) { body }`. Init and Incr are nil when
// the corresponding clause is omitted.
type For struct {
	baseStmt
	Init Stmt
	Cond Expr
	Incr Stmt
	Body *Block
}

func (n *For) TokenLiteral() string { return "for" }

func NewFor(line int, init Stmt, cond Expr, incr Stmt, body *Block) *For {
	return &For{baseStmt: baseStmt{line: line}, Init: init, Cond: cond, Incr: incr, Body: body}
}

// Return is `return expr ;`.
type Return struct {
	baseStmt
	Value Expr
}

func (n *Return) TokenLiteral() string { return "return" }

func NewReturn(line int, value Expr) *Return {
	return &Return{baseStmt: baseStmt{line: line}, Value: value}
}

// Print is `__print expr ;`.
type Print struct {
	baseStmt
	Value Expr
}

func (n *Print) TokenLiteral() string { return "__print" }

func NewPrint(line int, value Expr) *Print {
	return &Print{baseStmt: baseStmt{line: line}, Value: value}
}

// Delay is `__delay expr ;`.
type Delay struct {
	baseStmt
	Value Expr
}

func (n *Delay) TokenLiteral() string { return "__delay" }

func NewDelay(line int, value Expr) *Delay {
	return &Delay{baseStmt: baseStmt{line: line}, Value: value}
}

// Write is `__write x, y, c ;`.
type Write struct {
	baseStmt
	X, Y, Color Expr
}

func (n *Write) TokenLiteral() string { return "__write" }

func NewWrite(line int, x, y, color Expr) *Write {
	return &Write{baseStmt: baseStmt{line: line}, X: x, Y: y, Color: color}
}

// WriteBox is `__write_box x, y, w, h, c ;`.
type WriteBox struct {
	baseStmt
	X, Y, W, H, Color Expr
}

func (n *WriteBox) TokenLiteral() string { return "__write_box" }

func NewWriteBox(line int, x, y, w, h, color Expr) *WriteBox {
	return &WriteBox{baseStmt: baseStmt{line: line}, X: x, Y: y, W: w, H: h, Color: color}
}
