// Package parser implements PixIR-source's predictive recursive-descent
// parser: one token of lookahead, a fixed expression-precedence ladder, and
// fail-fast error reporting.
package parser

import (
	"fmt"
	"strconv"

	"github.com/aurelsys/pixc/internal/ast"
	"github.com/aurelsys/pixc/pkg/token"
)

// ParseError reports a token sequence that violates the grammar.
type ParseError struct {
	Line     int
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: expected %s, got %s", e.Line, e.Expected, e.Got)
}

// Parser holds the token stream and a one-token lookahead, per spec: current
// token, next token, and an index into the buffered stream.
type Parser struct {
	tokens []token.Token
	index  int
	cur    token.Token
	peek   token.Token
}

// New constructs a Parser over an already-lexed, skip-filtered token slice
// (the lexer's Tokenize output, which always ends in an EOF token).
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.cur = p.at(0)
	p.peek = p.at(1)
	return p
}

func (p *Parser) at(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

// advance shifts both current and lookahead tokens forward by one.
func (p *Parser) advance() {
	p.index++
	p.cur = p.at(p.index)
	p.peek = p.at(p.index + 1)
}

func (p *Parser) errorf(expected string) error {
	return &ParseError{Line: p.cur.Line, Expected: expected, Got: p.cur.Type.String() + " " + p.cur.Lexeme}
}

// expect asserts the current token's type, advances past it, and returns the
// token, or a ParseError if the type doesn't match.
func (p *Parser) expect(tt token.TokenType, what string) (token.Token, error) {
	if p.cur.Type != tt {
		return token.Token{}, p.errorf(what)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// Parse consumes the whole token stream and returns the program's AST, or
// the first ParseError encountered.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	prog := &ast.Program{}
	for p.cur.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// --- Statements ------------------------------------------------------

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseLet()
	case token.BUILTIN_PRINT:
		return p.parsePrint()
	case token.BUILTIN_DELAY:
		return p.parseDelay()
	case token.BUILTIN_WRITE:
		return p.parseWrite()
	case token.BUILTIN_WRITE_BOX:
		return p.parseWriteBox()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	case token.FUN:
		return p.parseFunctionDecl()
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		if p.peek.Type == token.ASSIGN || p.peek.Type == token.LBRACK {
			return p.parseAssignment()
		}
		return nil, p.errorf("assignment")
	default:
		return nil, p.errorf("statement")
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, p.errorf("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewBlock(open.Line, stmts), nil
}

func (p *Parser) parseTypeName() (string, error) {
	if !token.IsTypeName(p.cur.Type) {
		return "", p.errorf("type name")
	}
	t := p.cur.Lexeme
	p.advance()
	return t, nil
}

// parseLet handles both `let name : type = expr ;` and the array form
// `let name : type [ len? ] = [ expr, ... ] ;`.
func (p *Parser) parseLet() (ast.Stmt, error) {
	line := p.cur.Line
	if _, err := p.expect(token.LET, "'let'"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	if p.cur.Type == token.LBRACK {
		return p.parseArrayDeclTail(line, name.Lexeme, typ)
	}

	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewVarDecl(line, name.Lexeme, typ, init), nil
}

func (p *Parser) parseArrayDeclTail(line int, name, typ string) (ast.Stmt, error) {
	if _, err := p.expect(token.LBRACK, "'['"); err != nil {
		return nil, err
	}
	length := -1
	if p.cur.Type == token.INT {
		n, err := parseIntLexeme(p.cur.Lexeme)
		if err != nil {
			return nil, &ParseError{Line: p.cur.Line, Expected: "integer literal in range", Got: p.cur.Lexeme}
		}
		length = int(n)
		p.advance()
	}
	if _, err := p.expect(token.RBRACK, "']'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACK, "'['"); err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if p.cur.Type != token.RBRACK {
		for {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur.Type != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACK, "']'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	if length >= 0 && length != len(elems) {
		return nil, &ParseError{Line: line, Expected: fmt.Sprintf("%d array elements", length), Got: fmt.Sprintf("%d", len(elems))}
	}
	return ast.NewArrayDecl(line, name, typ, length, elems), nil
}

func (p *Parser) parseAssignment() (ast.Stmt, error) {
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	var index ast.Expr
	if p.cur.Type == token.LBRACK {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		index = idx
		if _, err := p.expect(token.RBRACK, "']'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewAssignment(name.Line, name.Lexeme, index, value), nil
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewPrint(line, val), nil
}

func (p *Parser) parseDelay() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewDelay(line, val), nil
}

func (p *Parser) parseCommaExprs(n int) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, err := p.expect(token.COMMA, "','"); err != nil {
				return nil, err
			}
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (p *Parser) parseWrite() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	exprs, err := p.parseCommaExprs(3)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewWrite(line, exprs[0], exprs[1], exprs[2]), nil
}

func (p *Parser) parseWriteBox() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	exprs, err := p.parseCommaExprs(5)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewWriteBox(line, exprs[0], exprs[1], exprs[2], exprs[3], exprs[4]), nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els *ast.Block
	if p.cur.Type == token.ELSE {
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(line, cond, then, els), nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(line, cond, body), nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if p.cur.Type != token.SEMICOLON {
		s, err := p.parseForClauseStatement()
		if err != nil {
			return nil, err
		}
		init = s
	} else {
		p.advance()
	}

	var cond ast.Expr
	if p.cur.Type != token.SEMICOLON {
		c, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	var incr ast.Stmt
	if p.cur.Type != token.RPAREN {
		s, err := p.parseForIncrStatement()
		if err != nil {
			return nil, err
		}
		incr = s
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(line, init, cond, incr, body), nil
}

// parseForClauseStatement parses a `let` or assignment for the `for` init
// clause, consuming its own terminating ';'.
func (p *Parser) parseForClauseStatement() (ast.Stmt, error) {
	if p.cur.Type == token.LET {
		return p.parseLet()
	}
	return p.parseAssignment()
}

// parseForIncrStatement parses the increment clause, which has no
// terminating ';' of its own (the enclosing '(' ... ')' closes it).
func (p *Parser) parseForIncrStatement() (ast.Stmt, error) {
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	var index ast.Expr
	if p.cur.Type == token.LBRACK {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		index = idx
		if _, err := p.expect(token.RBRACK, "']'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(name.Line, name.Lexeme, index, value), nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return ast.NewReturn(line, val), nil
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, error) {
	line := p.cur.Line
	p.advance()
	name, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []ast.FormalParam
	seen := map[string]bool{}
	if p.cur.Type != token.RPAREN {
		for {
			pname, err := p.expect(token.IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			if seen[pname.Lexeme] {
				return nil, &ParseError{Line: pname.Line, Expected: "unique parameter name", Got: pname.Lexeme}
			}
			seen[pname.Lexeme] = true
			if _, err := p.expect(token.COLON, "':'"); err != nil {
				return nil, err
			}
			ptyp, err := p.parseTypeName()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.FormalParam{Name: pname.Lexeme, Type: ptyp, Line: pname.Line})
			if p.cur.Type != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW, "'->'"); err != nil {
		return nil, err
	}
	ret, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDecl(line, name.Lexeme, params, ret, body), nil
}

// --- Expressions -------------------------------------------------------
//
// Precedence ladder per spec: expression > simple_expression > term >
// factor. Each level recognises at most one operator, so same-level chains
// are not supported: in `1 + 2 + 3` the second '+' ends the expression and
// the caller reports a ParseError; parentheses group such chains instead.

var relationalOps = map[token.TokenType]string{
	token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
	token.EQ_EQ: "==", token.NOT_EQ: "!=",
}

var additiveOps = map[token.TokenType]string{
	token.PLUS: "+", token.MINUS: "-", token.OR: "or",
}

var multiplicativeOps = map[token.TokenType]string{
	token.STAR: "*", token.SLASH: "/", token.AND: "and",
}

func (p *Parser) parseExpression() (ast.Expr, error) {
	left, err := p.parseSimpleExpression()
	if err != nil {
		return nil, err
	}
	if op, ok := relationalOps[p.cur.Type]; ok {
		line := p.cur.Line
		p.advance()
		right, err := p.parseSimpleExpression()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(line, op, left, right)
	}
	if p.cur.Type == token.AS {
		p.advance()
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		left.SetCastType(typ)
	}
	return left, nil
}

func (p *Parser) parseSimpleExpression() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if op, ok := additiveOps[p.cur.Type]; ok {
		line := p.cur.Line
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(line, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if op, ok := multiplicativeOps[p.cur.Type]; ok {
		line := p.cur.Line
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(line, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	switch p.cur.Type {
	case token.INT:
		v, err := parseIntLexeme(p.cur.Lexeme)
		if err != nil {
			return nil, &ParseError{Line: p.cur.Line, Expected: "integer literal in range", Got: p.cur.Lexeme}
		}
		lit := ast.NewIntLiteral(p.cur.Line, v)
		p.advance()
		return lit, nil
	case token.FLOAT:
		v, err := parseFloatLexeme(p.cur.Lexeme)
		if err != nil {
			return nil, &ParseError{Line: p.cur.Line, Expected: "float literal in range", Got: p.cur.Lexeme}
		}
		lit := ast.NewFloatLiteral(p.cur.Line, v)
		p.advance()
		return lit, nil
	case token.BOOL:
		lit := ast.NewBoolLiteral(p.cur.Line, p.cur.Lexeme == "true")
		p.advance()
		return lit, nil
	case token.COLOR:
		lit := ast.NewColorLiteral(p.cur.Line, p.cur.Lexeme[1:])
		p.advance()
		return lit, nil
	case token.NOT:
		line := p.cur.Line
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(line, "not", operand), nil
	case token.MINUS:
		line := p.cur.Line
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(line, "-", operand), nil
	case token.BUILTIN_RANDOM_INT:
		line := p.cur.Line
		p.advance()
		bound, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewRandomInt(line, bound), nil
	case token.BUILTIN_READ:
		line := p.cur.Line
		p.advance()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COMMA, "','"); err != nil {
			return nil, err
		}
		y, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewRead(line, x, y), nil
	case token.BUILTIN_WIDTH:
		lit := ast.NewWidth(p.cur.Line)
		p.advance()
		return lit, nil
	case token.BUILTIN_HEIGHT:
		lit := ast.NewHeight(p.cur.Line)
		p.advance()
		return lit, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.IDENT:
		return p.parseIdentOrCallOrIndex()
	default:
		return nil, p.errorf("expression")
	}
}

func (p *Parser) parseIdentOrCallOrIndex() (ast.Expr, error) {
	name := p.cur
	p.advance()
	if p.cur.Type == token.LPAREN {
		p.advance()
		var args []ast.Expr
		if p.cur.Type != token.RPAREN {
			for {
				a, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.cur.Type != token.COMMA {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return ast.NewCall(name.Line, name.Lexeme, args), nil
	}
	if p.cur.Type == token.LBRACK {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACK, "']'"); err != nil {
			return nil, err
		}
		return ast.NewVariable(name.Line, name.Lexeme, idx), nil
	}
	return ast.NewVariable(name.Line, name.Lexeme, nil), nil
}

func parseIntLexeme(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloatLexeme(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
