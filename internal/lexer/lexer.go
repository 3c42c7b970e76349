// Package lexer turns PixIR-source text into a token stream, driving the
// DFA defined in dfa.go.
package lexer

import (
	"fmt"

	"github.com/aurelsys/pixc/pkg/token"
)

// LexError reports a lexical failure: an input position the DFA could not
// advance past to any accepting state.
type LexError struct {
	Line    int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// frame records an accepting state reached during a scan, and the
// input/line position it was reached at; scanDFA keeps only the latest one.
type frame struct {
	state State
	pos   int
	line  int
}

// Lexer drives the DFA over a rune slice, producing one token per call to
// NextToken.
type Lexer struct {
	src  []rune
	pos  int
	line int
}

// New constructs a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// Tokenize consumes the entire input, returning every non-SKIP token
// (including a trailing EOF), or the first LexError encountered.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type != token.SKIP {
			out = append(out, tok)
		}
		if tok.Type == token.EOF {
			return out, nil
		}
	}
}

// NextToken scans and returns the next token, which may be token.SKIP
// (whitespace or a comment) — callers that want a filtered stream should
// use Tokenize instead.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.atEnd() {
		return token.NewToken(token.EOF, "", l.line), nil
	}

	startLine := l.line

	// '/' is the only lead-in character whose continuation (comment vs.
	// division) needs unbounded, non-backtracking lookahead, since comment
	// bodies have no fixed length. It gets a dedicated reader, the same way
	// the teacher's lexer special-cases comments rather than folding their
	// arbitrary-length bodies into the generic longest-match stack.
	if l.src[l.pos] == '/' {
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.readLineComment()
			return token.NewToken(token.SKIP, "", startLine), nil
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '*' {
			if err := l.readBlockComment(startLine); err != nil {
				return token.Token{}, err
			}
			return token.NewToken(token.SKIP, "", startLine), nil
		}
	}

	return l.scanDFA(startLine)
}

// scanDFA runs the generic longest-match-with-backtracking algorithm: it
// keeps advancing while a transition exists, remembering every accepting
// state visited, then on the first dead end rewinds to the last one. If no
// accepting state was ever reached, the offending character is a LexError.
func (l *Lexer) scanDFA(startLine int) (token.Token, error) {
	start := l.pos
	state := S0
	var best *frame

	if IsAccepting(state) {
		best = &frame{state: state, pos: l.pos, line: l.line}
	}

	for !l.atEnd() {
		ch := l.src[l.pos]
		cat := categoryOf(ch)
		next, ok := Step(state, cat)
		if !ok {
			break
		}
		state = next
		l.pos++
		if ch == '\n' {
			l.line++
		}
		if IsAccepting(state) {
			best = &frame{state: state, pos: l.pos, line: l.line}
		}
	}

	if best == nil {
		ch := l.src[start]
		l.pos = start + 1
		return token.Token{}, &LexError{
			Line:    startLine,
			Message: fmt.Sprintf("unexpected character %q", ch),
		}
	}

	// Roll back to the last accepting state's position; everything consumed
	// past it (a failed longer match) is un-consumed.
	l.pos = best.pos
	l.line = best.line

	lexeme := string(l.src[start:best.pos])
	typ := Classify(best.state, lexeme)
	if typ == token.ILLEGAL {
		return token.Token{}, &LexError{
			Line:    startLine,
			Message: fmt.Sprintf("invalid token %q", lexeme),
		}
	}
	return token.NewToken(typ, lexeme, startLine), nil
}

// readLineComment consumes up to (not including) the next newline or EOF.
func (l *Lexer) readLineComment() {
	for !l.atEnd() && l.src[l.pos] != '\n' {
		l.pos++
	}
}

// readBlockComment consumes up to and including the closing "*/". It
// reports a LexError if EOF is reached first.
func (l *Lexer) readBlockComment(startLine int) error {
	l.pos += 2 // consume "/*"
	for {
		if l.atEnd() {
			return &LexError{Line: startLine, Message: "unterminated block comment"}
		}
		if l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}
