// Package codegen lowers a type-checked AST to textual PixIR: a flat list
// of instruction strings, built in memory and flushed once at the end.
package codegen

import (
	"fmt"

	"github.com/aurelsys/pixc/internal/ast"
	"github.com/aurelsys/pixc/internal/semantic"
)

// CodegenError reports a failure discovered during emission — e.g. resolving
// a name the semantic analyser should already have rejected. The one case a
// type-checked program can still raise is an array index that is not an
// integer literal, since frame addresses are static operands.
type CodegenError struct {
	Line    int
	Message string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func cgErr(line int, format string, args ...interface{}) error {
	return &CodegenError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Compiler is an AST visitor that re-resolves names against its own symbol
// table (built by retracing the semantic analyser's scope structure, except
// that a function's parameters and body statements share one scope here)
// and emits PixIR instruction lines. Back-patching is done
// by index into the in-memory line list, per spec.md's "in-memory vector,
// remember the index" design note — no file seeking.
type Compiler struct {
	table *semantic.SymbolTable
	lines []string
}

// New returns a Compiler with a fresh, global-only symbol table.
func New() *Compiler {
	return &Compiler{table: semantic.NewSymbolTable()}
}

// Generate type-checks prog and, if it passes, emits its PixIR instruction
// stream. Codegen re-derives its own frame bookkeeping rather than reusing
// the analyser's table, but trusts the analyser's verdict on types: apart
// from a non-constant array index, any CodegenError it raises signals an
// invariant the analyser should already have caught.
func Generate(prog *ast.Program) ([]string, error) {
	if err := semantic.NewAnalyzer().Analyze(prog); err != nil {
		return nil, err
	}
	c := New()
	return c.GenerateProgram(prog)
}

func (c *Compiler) emit(line string) {
	c.lines = append(c.lines, line)
}

func (c *Compiler) emitf(format string, args ...interface{}) {
	c.emit(fmt.Sprintf(format, args...))
}

// emitForwardPlaceholder emits a push/jmp pair whose target is unknown yet,
// returning the index of the push instruction for a later patchForward.
func (c *Compiler) emitForwardPlaceholder() int {
	idx := len(c.lines)
	c.emit("push #PC+0")
	c.emit("jmp")
	return idx
}

// patchForward rewrites the placeholder at idx to jump to the current end
// of the emitted stream.
func (c *Compiler) patchForward(idx int) {
	delta := len(c.lines) - idx
	c.lines[idx] = fmt.Sprintf("push #PC+%d", delta)
}

// emitBackwardJump emits a push/jmp pair that jumps back to targetIdx.
func (c *Compiler) emitBackwardJump(targetIdx int) {
	idx := len(c.lines)
	delta := idx - targetIdx
	c.emitf("push #PC-%d", delta)
	c.emit("jmp")
}

// slotsNeeded counts the frame slots a statement list's own declarations
// need, without recursing into nested blocks (which get their own frames).
func slotsNeeded(stmts []ast.Stmt) int {
	n := 0
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.VarDecl:
			n++
		case *ast.ArrayDecl:
			n += len(d.Elements)
		}
	}
	return n
}

// genFramedBlock pushes a scope, frames it with push N/oframe sized from
// extra plus this statement list's own declarations, emits the statements,
// and closes the frame with cframe.
func (c *Compiler) genFramedBlock(kind semantic.ScopeKind, extra int, stmts []ast.Stmt) error {
	c.table.PushScope(kind)
	n := extra + slotsNeeded(stmts)
	c.emitf("push %d", n)
	c.emit("oframe")
	for _, s := range stmts {
		if err := c.genStmt(s); err != nil {
			c.table.PopScope()
			return err
		}
	}
	c.emit("cframe")
	c.table.PopScope()
	return nil
}

// GenerateProgram emits the `.main` preamble and the top-level statements,
// which is the global frame.
func (c *Compiler) GenerateProgram(prog *ast.Program) ([]string, error) {
	c.emit(".main")
	c.emit("push #PC+4")
	c.emit("jmp")
	c.emit("halt")

	n := slotsNeeded(prog.Statements)
	c.emitf("push %d", n)
	c.emit("oframe")
	for _, s := range prog.Statements {
		if err := c.genStmt(s); err != nil {
			return nil, err
		}
	}
	c.emit("cframe")
	return c.lines, nil
}

// --- Statements ----------------------------------------------------------

func (c *Compiler) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.genVarDecl(s)
	case *ast.ArrayDecl:
		return c.genArrayDecl(s)
	case *ast.Assignment:
		return c.genAssignment(s)
	case *ast.Print:
		if err := c.genExpr(s.Value); err != nil {
			return err
		}
		c.emit("print")
		return nil
	case *ast.Delay:
		if err := c.genExpr(s.Value); err != nil {
			return err
		}
		c.emit("delay")
		return nil
	case *ast.Write:
		// Reverse (rightmost-to-leftmost) argument evaluation order,
		// carried over from the original reference implementation.
		if err := c.genExpr(s.Color); err != nil {
			return err
		}
		if err := c.genExpr(s.Y); err != nil {
			return err
		}
		if err := c.genExpr(s.X); err != nil {
			return err
		}
		c.emit("write")
		return nil
	case *ast.WriteBox:
		for _, e := range []ast.Expr{s.Color, s.H, s.W, s.Y, s.X} {
			if err := c.genExpr(e); err != nil {
				return err
			}
		}
		c.emit("writebox")
		return nil
	case *ast.If:
		return c.genIf(s)
	case *ast.While:
		return c.genWhile(s)
	case *ast.For:
		return c.genFor(s)
	case *ast.Return:
		if err := c.genExpr(s.Value); err != nil {
			return err
		}
		c.emit("ret")
		return nil
	case *ast.FunctionDecl:
		return c.genFunctionDecl(s)
	case *ast.Block:
		return c.genFramedBlock(semantic.ScopeBlock, 0, s.Statements)
	default:
		return cgErr(stmt.Line(), "unhandled statement type %T", stmt)
	}
}

// genStoreToSymbol emits the index/level/st suffix of a store: the value
// itself must already be on the stack.
func (c *Compiler) genStoreToSymbol(sym *semantic.Symbol) {
	levelDelta := c.table.CurrentFrameLevel() - sym.FrameLevel
	c.emitf("push %d", sym.FrameIndex)
	c.emitf("push %d", levelDelta)
	c.emit("st")
}

func (c *Compiler) genVarDecl(s *ast.VarDecl) error {
	if err := c.genExpr(s.Init); err != nil {
		return err
	}
	idx := c.table.CurrentFrameIndex()
	c.emitf("push %d", idx)
	c.emit("push 0")
	c.emit("st")
	return c.table.AddSymbol(s.Name, &semantic.Symbol{Kind: semantic.SymVariable, Type: s.Type})
}

func (c *Compiler) genArrayDecl(s *ast.ArrayDecl) error {
	base := c.table.CurrentFrameIndex()
	if err := c.table.AddSymbol(s.Name, &semantic.Symbol{Kind: semantic.SymVariable, Type: s.ElemType, ArrayLen: len(s.Elements)}); err != nil {
		return err
	}
	for i, elem := range s.Elements {
		if err := c.genExpr(elem); err != nil {
			return err
		}
		c.emitf("push %d", base+i)
		c.emit("push 0")
		c.emit("st")
	}
	return nil
}

// constIndex evaluates an array index expression that must be a compile-time
// integer constant, since PixIR frame addresses are static operands.
func constIndex(e ast.Expr) (int, bool) {
	lit, ok := e.(*ast.IntLiteral)
	if !ok {
		return 0, false
	}
	return int(lit.Value), true
}

func (c *Compiler) genAssignment(s *ast.Assignment) error {
	sym, ok := c.table.Lookup(s.Name, false)
	if !ok {
		return cgErr(s.Line(), "undeclared variable %q", s.Name)
	}
	if err := c.genExpr(s.Value); err != nil {
		return err
	}
	if s.Index != nil {
		offset, ok := constIndex(s.Index)
		if !ok {
			return cgErr(s.Index.Line(), "array index must be a constant integer expression")
		}
		levelDelta := c.table.CurrentFrameLevel() - sym.FrameLevel
		c.emitf("push %d", sym.FrameIndex+offset)
		c.emitf("push %d", levelDelta)
		c.emit("st")
		return nil
	}
	c.genStoreToSymbol(sym)
	return nil
}

func (c *Compiler) genIf(s *ast.If) error {
	if err := c.genExpr(s.Cond); err != nil {
		return err
	}
	c.emit("push #PC+4")
	c.emit("cjmp")
	skipThen := c.emitForwardPlaceholder()
	if err := c.genStmt(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		skipElse := c.emitForwardPlaceholder()
		c.patchForward(skipThen)
		if err := c.genStmt(s.Else); err != nil {
			return err
		}
		c.patchForward(skipElse)
	} else {
		c.patchForward(skipThen)
	}
	return nil
}

func (c *Compiler) genWhile(s *ast.While) error {
	condStart := len(c.lines)
	if err := c.genExpr(s.Cond); err != nil {
		return err
	}
	c.emit("push #PC+4")
	c.emit("cjmp")
	exit := c.emitForwardPlaceholder()
	if err := c.genStmt(s.Body); err != nil {
		return err
	}
	c.emitBackwardJump(condStart)
	c.patchForward(exit)
	return nil
}

func (c *Compiler) genFor(s *ast.For) error {
	// The loop's own scope (holding a `let` init variable) gets its own frame.
	c.table.PushScope(semantic.ScopeBlock)
	defer c.table.PopScope()
	c.emitf("push %d", slotsNeeded([]ast.Stmt{s.Init}))
	c.emit("oframe")

	if s.Init != nil {
		if err := c.genStmt(s.Init); err != nil {
			return err
		}
	}

	condStart := len(c.lines)
	if s.Cond != nil {
		if err := c.genExpr(s.Cond); err != nil {
			return err
		}
	} else {
		c.emit("push 1")
	}
	c.emit("push #PC+4")
	c.emit("cjmp")
	exit := c.emitForwardPlaceholder()

	if err := c.genStmt(s.Body); err != nil {
		return err
	}

	if s.Incr != nil {
		if err := c.genStmt(s.Incr); err != nil {
			return err
		}
	}
	c.emitBackwardJump(condStart)
	c.patchForward(exit)
	c.emit("cframe")
	return nil
}

func (c *Compiler) genFunctionDecl(fn *ast.FunctionDecl) error {
	fence := c.emitForwardPlaceholder()
	c.emit("." + fn.Name)

	c.table.PushScope(semantic.ScopeFunction)
	for _, p := range fn.Params {
		if err := c.table.AddSymbol(p.Name, &semantic.Symbol{Kind: semantic.SymVariable, Type: p.Type}); err != nil {
			c.table.PopScope()
			return cgErr(fn.Line(), "duplicate parameter %q", p.Name)
		}
	}

	n := len(fn.Params) + slotsNeeded(fn.Body.Statements)
	c.emitf("push %d", n)
	c.emit("oframe")
	for _, s := range fn.Body.Statements {
		if err := c.genStmt(s); err != nil {
			c.table.PopScope()
			return err
		}
	}
	c.emit("cframe")
	c.table.PopScope()

	// When the body ends in a return, it emitted "ret" just before this
	// "cframe"; the calling convention wants the frame torn down first, so
	// swap them. A body ending in an if/else returns from inside its
	// branches, and the swap then exchanges two closing "cframe" lines.
	last := len(c.lines) - 1
	c.lines[last], c.lines[last-1] = c.lines[last-1], c.lines[last]

	c.patchForward(fence)
	return nil
}

// --- Expressions -----------------------------------------------------

func (c *Compiler) genExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		c.emitf("push %d", e.Value)
	case *ast.FloatLiteral:
		c.emitf("push %g", e.Value)
	case *ast.BoolLiteral:
		if e.Value {
			c.emit("push 1")
		} else {
			c.emit("push 0")
		}
	case *ast.ColorLiteral:
		c.emit("push #" + e.Hex)
	case *ast.Variable:
		return c.genVariable(e)
	case *ast.UnaryOp:
		return c.genUnaryOp(e)
	case *ast.BinaryOp:
		return c.genBinaryOp(e)
	case *ast.Call:
		return c.genCall(e)
	case *ast.RandomInt:
		if err := c.genExpr(e.Bound); err != nil {
			return err
		}
		c.emit("irnd")
	case *ast.Read:
		if err := c.genExpr(e.Y); err != nil {
			return err
		}
		if err := c.genExpr(e.X); err != nil {
			return err
		}
		c.emit("read")
	case *ast.Width:
		c.emit("width")
	case *ast.Height:
		c.emit("height")
	default:
		return cgErr(expr.Line(), "unhandled expression type %T", expr)
	}
	return nil
}

func (c *Compiler) genVariable(v *ast.Variable) error {
	sym, ok := c.table.Lookup(v.Name, false)
	if !ok {
		return cgErr(v.Line(), "undeclared variable %q", v.Name)
	}
	levelDelta := c.table.CurrentFrameLevel() - sym.FrameLevel
	if v.Index != nil {
		offset, ok := constIndex(v.Index)
		if !ok {
			return cgErr(v.Index.Line(), "array index must be a constant integer expression")
		}
		c.emitf("push [%d:%d]", sym.FrameIndex+offset, levelDelta)
		return nil
	}
	c.emitf("push [%d:%d]", sym.FrameIndex, levelDelta)
	return nil
}

func (c *Compiler) genUnaryOp(u *ast.UnaryOp) error {
	switch u.Op {
	case "not":
		if err := c.genExpr(u.Operand); err != nil {
			return err
		}
		c.emit("not")
		return nil
	case "-":
		// PixIR has no dedicated negate opcode, so unary minus lowers to
		// "0 - operand" using the ordinary right-then-left subtraction.
		if err := c.genExpr(u.Operand); err != nil {
			return err
		}
		c.emit("push 0")
		c.emit("sub")
		return nil
	default:
		return cgErr(u.Line(), "unknown unary operator %q", u.Op)
	}
}

var binaryOpcodes = map[string]string{
	"+": "add", "-": "sub", "*": "mul", "/": "div",
	"<": "lt", ">": "gt", "<=": "le", ">=": "ge",
	"and": "and", "or": "or",
}

func (c *Compiler) genBinaryOp(b *ast.BinaryOp) error {
	// Right operand first, then left: a pinned contract, not an accident.
	if err := c.genExpr(b.Right); err != nil {
		return err
	}
	if err := c.genExpr(b.Left); err != nil {
		return err
	}
	switch b.Op {
	case "==":
		c.emit("eq")
	case "!=":
		c.emit("eq")
		c.emit("not")
	default:
		opcode, ok := binaryOpcodes[b.Op]
		if !ok {
			return cgErr(b.Line(), "unknown binary operator %q", b.Op)
		}
		c.emit(opcode)
	}
	return nil
}

func (c *Compiler) genCall(call *ast.Call) error {
	for _, arg := range call.Args {
		if err := c.genExpr(arg); err != nil {
			return err
		}
	}
	c.emit("push ." + call.Callee)
	c.emit("call")
	return nil
}
