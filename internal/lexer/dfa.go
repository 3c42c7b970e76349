package lexer

import (
	"unicode"

	"github.com/aurelsys/pixc/pkg/token"
)

// State identifies a DFA state. S0 is always the start state.
type State int

const (
	S0  State = iota // start
	S1               // '-' seen (accepts MINUS)
	S2               // "->" seen (accepts ARROW)
	S3               // single-char '+' or '*' (accepts PLUS/STAR)
	S4               // '/' seen (accepts SLASH; also comment lead-in)
	S5               // inside a line comment body
	S6               // whitespace / newline run (accepts SKIP)
	S7               // inside a block comment body
	S8               // block comment, just saw '*' (maybe closing)
	S9               // '=' seen (accepts ASSIGN)
	S10              // '<' or '>' seen (accepts LT/GT)
	S11              // '!' seen, pending '=' (no standalone accept)
	S12              // two-char relational/equality op (accepts LE/GE/EQ_EQ/NOT_EQ)
	S13              // single punctuation char
	S14              // first '_' of a possible builtin
	S15              // second '_' of a possible builtin
	S16              // inside a "__name" builtin identifier
	S17              // inside a plain identifier/keyword
	S18              // integer literal digits
	S19              // '.' seen after digits, pending fractional digit
	S20              // float literal digits
	S21              // '#' seen, 0 hex digits so far
	S22              // 1 hex digit
	S23              // 2 hex digits
	S24              // 3 hex digits
	S25              // 4 hex digits
	S26              // 5 hex digits
	S27              // 6 hex digits (accepts COLOR)

	stateCount
)

// Category is the closed alphabet of input character classes the DFA
// dispatches on. A character belongs to exactly one category.
type Category int

const (
	catDigit Category = iota
	catHexLetter
	catLetter
	catPlus
	catMinus
	catStar
	catSlash
	catPunct
	catWhitespace
	catNewline
	catEquals
	catLess
	catGreater
	catExclaim
	catHash
	catDot
	catUnderscore
	catOther
)

// categoryOf classifies a single rune into its DFA input category.
func categoryOf(ch rune) Category {
	switch {
	case ch >= '0' && ch <= '9':
		return catDigit
	case ch == 'a' || ch == 'b' || ch == 'c' || ch == 'd' || ch == 'e' || ch == 'f' ||
		ch == 'A' || ch == 'B' || ch == 'C' || ch == 'D' || ch == 'E' || ch == 'F':
		return catHexLetter
	case unicode.IsLetter(ch):
		return catLetter
	case ch == '+':
		return catPlus
	case ch == '-':
		return catMinus
	case ch == '*':
		return catStar
	case ch == '/':
		return catSlash
	case ch == '(' || ch == ')' || ch == '{' || ch == '}' || ch == '[' || ch == ']' ||
		ch == ',' || ch == ':' || ch == ';':
		return catPunct
	case ch == ' ' || ch == '\t' || ch == '\r':
		return catWhitespace
	case ch == '\n':
		return catNewline
	case ch == '=':
		return catEquals
	case ch == '<':
		return catLess
	case ch == '>':
		return catGreater
	case ch == '!':
		return catExclaim
	case ch == '#':
		return catHash
	case ch == '.':
		return catDot
	case ch == '_':
		return catUnderscore
	default:
		return catOther
	}
}

type transitionKey struct {
	from State
	cat  Category
}

// transitions is the DFA's total transition function, stored as a partial
// map: a missing entry means "no transition" per spec.md's lexing algorithm,
// which triggers backtracking to the nearest accepting state on the stack.
var transitions = map[transitionKey]State{
	// '-' and '->'
	{S0, catMinus}: S1,
	{S1, catGreater}: S2,

	// '+' and '*' share an accepting state; the lexeme text disambiguates.
	{S0, catPlus}: S3,
	{S0, catStar}: S3,

	// '/' : division, line comment, or block comment
	{S0, catSlash}: S4,
	{S4, catSlash}: S5,
	{S4, catStar}:  S7,

	// line comment body: consume everything up to (not including) newline
	{S5, catDigit}:      S5,
	{S5, catHexLetter}:  S5,
	{S5, catLetter}:     S5,
	{S5, catPlus}:       S5,
	{S5, catMinus}:      S5,
	{S5, catStar}:       S5,
	{S5, catSlash}:      S5,
	{S5, catPunct}:      S5,
	{S5, catWhitespace}: S5,
	{S5, catEquals}:     S5,
	{S5, catLess}:       S5,
	{S5, catGreater}:    S5,
	{S5, catExclaim}:    S5,
	{S5, catHash}:       S5,
	{S5, catDot}:        S5,
	{S5, catUnderscore}: S5,
	{S5, catOther}:      S5,
	{S5, catNewline}:    S6,

	// whitespace / newline run
	{S0, catWhitespace}: S6,
	{S0, catNewline}:    S6,
	{S6, catWhitespace}: S6,
	{S6, catNewline}:    S6,

	// block comment body, with a one-character lookbehind for the closing "*/"
	{S7, catDigit}:      S7,
	{S7, catHexLetter}:  S7,
	{S7, catLetter}:     S7,
	{S7, catPlus}:       S7,
	{S7, catMinus}:      S7,
	{S7, catSlash}:      S7,
	{S7, catPunct}:      S7,
	{S7, catWhitespace}: S7,
	{S7, catNewline}:    S7,
	{S7, catEquals}:     S7,
	{S7, catLess}:       S7,
	{S7, catGreater}:    S7,
	{S7, catExclaim}:    S7,
	{S7, catHash}:       S7,
	{S7, catDot}:        S7,
	{S7, catUnderscore}: S7,
	{S7, catOther}:      S7,
	{S7, catStar}:       S8,
	{S8, catDigit}:      S7,
	{S8, catHexLetter}:  S7,
	{S8, catLetter}:     S7,
	{S8, catPlus}:       S7,
	{S8, catMinus}:      S7,
	{S8, catPunct}:      S7,
	{S8, catWhitespace}: S7,
	{S8, catNewline}:    S7,
	{S8, catEquals}:     S7,
	{S8, catLess}:       S7,
	{S8, catGreater}:    S7,
	{S8, catExclaim}:    S7,
	{S8, catHash}:       S7,
	{S8, catDot}:        S7,
	{S8, catUnderscore}: S7,
	{S8, catOther}:      S7,
	{S8, catStar}:       S8,
	{S8, catSlash}:      S6,

	// assignment and relational operators
	{S0, catEquals}:   S9,
	{S0, catLess}:     S10,
	{S0, catGreater}:  S10,
	{S0, catExclaim}:  S11,
	{S9, catEquals}:   S12,
	{S10, catEquals}:  S12,
	{S11, catEquals}:  S12,

	// punctuation
	{S0, catPunct}: S13,

	// "__name" builtins
	{S0, catUnderscore}:  S14,
	{S14, catUnderscore}: S15,
	{S15, catLetter}:     S16,
	{S15, catHexLetter}:  S16,
	{S16, catLetter}:     S16,
	{S16, catHexLetter}:  S16,
	{S16, catDigit}:      S16,
	{S16, catUnderscore}: S16,

	// identifiers / keywords / type names
	{S0, catLetter}:      S17,
	{S0, catHexLetter}:   S17,
	{S17, catLetter}:     S17,
	{S17, catHexLetter}:  S17,
	{S17, catDigit}:      S17,
	{S17, catUnderscore}: S17,

	// integer and float literals
	{S0, catDigit}:    S18,
	{S18, catDigit}:   S18,
	{S18, catDot}:     S19,
	{S19, catDigit}:   S20,
	{S20, catDigit}:   S20,

	// colour literals: '#' followed by exactly six hex digits
	{S0, catHash}:      S21,
	{S21, catDigit}:     S22,
	{S21, catHexLetter}: S22,
	{S22, catDigit}:     S23,
	{S22, catHexLetter}: S23,
	{S23, catDigit}:     S24,
	{S23, catHexLetter}: S24,
	{S24, catDigit}:     S25,
	{S24, catHexLetter}: S25,
	{S25, catDigit}:     S26,
	{S25, catHexLetter}: S26,
	{S26, catDigit}:     S27,
	{S26, catHexLetter}: S27,
}

// Step returns the next state for (state, category), or ok=false if no
// transition exists — the generic driver then backtracks.
func Step(s State, c Category) (State, bool) {
	next, ok := transitions[transitionKey{s, c}]
	return next, ok
}

// accepting maps an accepting state to the function that classifies the
// matched lexeme into a concrete token kind. Non-accepting states (pending
// multi-character operators, partially-read colour literals, the "__"
// lead-in, comment interiors) are absent from this map.
var accepting = map[State]func(lexeme string) token.TokenType{
	S1:  func(string) token.TokenType { return token.MINUS },
	S2:  func(string) token.TokenType { return token.ARROW },
	S3:  classifyArith,
	S4:  func(string) token.TokenType { return token.SLASH },
	S6:  func(string) token.TokenType { return token.SKIP },
	S9:  func(string) token.TokenType { return token.ASSIGN },
	S10: classifyRelational1,
	S12: classifyRelational2,
	S13: classifyPunct,
	S16: func(lexeme string) token.TokenType { return token.LookupBuiltin(lexeme) },
	S17: func(lexeme string) token.TokenType { return token.LookupIdent(lexeme) },
	S18: func(string) token.TokenType { return token.INT },
	S20: func(string) token.TokenType { return token.FLOAT },
	S27: func(string) token.TokenType { return token.COLOR },
}

// IsAccepting reports whether s is an accepting state.
func IsAccepting(s State) bool {
	_, ok := accepting[s]
	return ok
}

// Classify maps an accepting state and its matched lexeme to a token kind.
func Classify(s State, lexeme string) token.TokenType {
	fn, ok := accepting[s]
	if !ok {
		return token.ILLEGAL
	}
	return fn(lexeme)
}

func classifyArith(lexeme string) token.TokenType {
	switch lexeme {
	case "+":
		return token.PLUS
	case "*":
		return token.STAR
	default:
		return token.ILLEGAL
	}
}

func classifyRelational1(lexeme string) token.TokenType {
	switch lexeme {
	case "<":
		return token.LT
	case ">":
		return token.GT
	default:
		return token.ILLEGAL
	}
}

func classifyRelational2(lexeme string) token.TokenType {
	switch lexeme {
	case "<=":
		return token.LE
	case ">=":
		return token.GE
	case "==":
		return token.EQ_EQ
	case "!=":
		return token.NOT_EQ
	default:
		return token.ILLEGAL
	}
}

func classifyPunct(lexeme string) token.TokenType {
	switch lexeme {
	case "(":
		return token.LPAREN
	case ")":
		return token.RPAREN
	case "{":
		return token.LBRACE
	case "}":
		return token.RBRACE
	case "[":
		return token.LBRACK
	case "]":
		return token.RBRACK
	case ",":
		return token.COMMA
	case ";":
		return token.SEMICOLON
	case ":":
		return token.COLON
	default:
		return token.ILLEGAL
	}
}
