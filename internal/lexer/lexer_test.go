package lexer

import (
	"testing"

	"github.com/aurelsys/pixc/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `let x : int = 5;
	x = x + 10;
	`

	tests := []struct {
		expectedLexeme string
		expectedType   token.TokenType
	}{
		{"let", token.LET},
		{"x", token.IDENT},
		{":", token.COLON},
		{"int", token.TYPE_INT},
		{"=", token.ASSIGN},
		{"5", token.INT},
		{";", token.SEMICOLON},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"x", token.IDENT},
		{"+", token.PLUS},
		{"10", token.INT},
		{";", token.SEMICOLON},
		{"", token.EOF},
	}

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(toks), len(tests), toks)
	}

	for i, tt := range tests {
		tok := toks[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (lexeme=%q)",
				i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestKeywordsAndTypes(t *testing.T) {
	input := `as let return if else for while fun and or not int float bool color`

	tests := []token.TokenType{
		token.AS, token.LET, token.RETURN, token.IF, token.ELSE, token.FOR,
		token.WHILE, token.FUN, token.AND, token.OR, token.NOT,
		token.TYPE_INT, token.TYPE_FLOAT, token.TYPE_BOOL, token.TYPE_COLOR,
	}

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if len(toks) != len(tests)+1 { // +1 for trailing EOF
		t.Fatalf("token count mismatch: got %d, want %d", len(toks), len(tests)+1)
	}
	for i, want := range tests {
		if toks[i].Type != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, want, toks[i].Type)
		}
	}
}

func TestBuiltins(t *testing.T) {
	input := `__print __delay __write __write_box __random_int __read __width __height`

	tests := []token.TokenType{
		token.BUILTIN_PRINT, token.BUILTIN_DELAY, token.BUILTIN_WRITE,
		token.BUILTIN_WRITE_BOX, token.BUILTIN_RANDOM_INT, token.BUILTIN_READ,
		token.BUILTIN_WIDTH, token.BUILTIN_HEIGHT,
	}

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	for i, want := range tests {
		if toks[i].Type != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, want, toks[i].Type)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / < > <= >= == != = -> ( ) { } [ ] , ; :`

	tests := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.LT, token.GT, token.LE, token.GE, token.EQ_EQ, token.NOT_EQ,
		token.ASSIGN, token.ARROW,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACK, token.RBRACK, token.COMMA, token.SEMICOLON, token.COLON,
	}

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	for i, want := range tests {
		if toks[i].Type != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s (lexeme=%q)", i, want, toks[i].Type, toks[i].Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	input := `123 3.14 true false #FF00AA`

	tests := []struct {
		typ    token.TokenType
		lexeme string
	}{
		{token.INT, "123"},
		{token.FLOAT, "3.14"},
		{token.BOOL, "true"},
		{token.BOOL, "false"},
		{token.COLOR, "#FF00AA"},
	}

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	for i, tt := range tests {
		if toks[i].Type != tt.typ || toks[i].Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - expected=(%s,%q), got=(%s,%q)", i, tt.typ, tt.lexeme, toks[i].Type, toks[i].Lexeme)
		}
	}
}

func TestComments(t *testing.T) {
	input := `let x : int = 1; // trailing line comment
	/* a
	   block comment */
	let y : int = 2;`

	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	var lets int
	for _, tok := range toks {
		if tok.Type == token.LET {
			lets++
		}
	}
	if lets != 2 {
		t.Fatalf("expected 2 let tokens around comments, got %d", lets)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := New(`let x : int = 1; /* never closed`).Tokenize()
	if err == nil {
		t.Fatal("expected a LexError for an unterminated block comment")
	}
}

func TestArrowVsMinus(t *testing.T) {
	input := `a - b fun f() -> int { return 1; }`
	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	var sawMinus, sawArrow bool
	for _, tok := range toks {
		switch tok.Type {
		case token.MINUS:
			sawMinus = true
		case token.ARROW:
			sawArrow = true
		}
	}
	if !sawMinus || !sawArrow {
		t.Fatalf("expected both MINUS and ARROW, got tokens: %+v", toks)
	}
}

func TestShortColorLiteralIsError(t *testing.T) {
	_, err := New(`#FFF`).Tokenize()
	if err == nil {
		t.Fatal("expected a LexError for a colour literal with fewer than six hex digits")
	}
}

func TestLineNumbers(t *testing.T) {
	input := "let x : int = 1;\nlet y : int = 2;\n"
	toks, err := New(input).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	if toks[0].Line != 1 {
		t.Fatalf("expected first token on line 1, got %d", toks[0].Line)
	}

	var sawLine2 bool
	for _, tok := range toks {
		if tok.Type == token.LET && tok.Line == 2 {
			sawLine2 = true
		}
	}
	if !sawLine2 {
		t.Fatalf("expected a let token on line 2, got tokens: %+v", toks)
	}
}
