// Package expr implements the column-algebra predicate language evaluated
// against an analytics feature table: comparisons, boolean connectives,
// arithmetic, parentheses, unary minus, and shifted-column lookups. There
// is no host-language eval anywhere in this package — every predicate is
// parsed into an AST once and interpreted against column arrays.
package expr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lexer turns a predicate string into a token stream. pandas-query style
// keywords (and/or/not) are accepted alongside their symbolic equivalents
// (&/|/~) since the original predicate language allows both.
type lexer struct {
	src  string
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	return l.toks, nil
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, pos: start}, nil
	case c == '+':
		l.pos++
		return token{kind: tokPlus, pos: start}, nil
	case c == '-':
		l.pos++
		return token{kind: tokMinus, pos: start}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar, pos: start}, nil
	case c == '/':
		l.pos++
		return token{kind: tokSlash, pos: start}, nil
	case c == '&':
		l.pos++
		return token{kind: tokAnd, pos: start}, nil
	case c == '|':
		l.pos++
		return token{kind: tokOr, pos: start}, nil
	case c == '~':
		l.pos++
		return token{kind: tokNot, pos: start}, nil
	case c == '=':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokEq, pos: start}, nil
		}
		return token{}, parseErr(start, "unexpected '='; use '==' for equality")
	case c == '!':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokNeq, pos: start}, nil
		}
		return token{}, parseErr(start, "unexpected '!'")
	case c == '<':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokLte, pos: start}, nil
		}
		l.pos++
		return token{kind: tokLt, pos: start}, nil
	case c == '>':
		if l.peekAt(1) == '=' {
			l.pos += 2
			return token{kind: tokGte, pos: start}, nil
		}
		l.pos++
		return token{kind: tokGt, pos: start}, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdent(start)
	default:
		return token{}, parseErr(start, "unexpected character %q", c)
	}
}

func (l *lexer) lexNumber(start int) (token, error) {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	text := l.src[start:l.pos]
	var num float64
	if _, err := fmt.Sscanf(text, "%g", &num); err != nil {
		return token{}, parseErr(start, "invalid number literal %q", text)
	}
	return token{kind: tokNumber, text: text, num: num, pos: start}, nil
}

func (l *lexer) lexIdent(start int) (token, error) {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch strings.ToLower(text) {
	case "and":
		return token{kind: tokAnd, text: text, pos: start}, nil
	case "or":
		return token{kind: tokOr, text: text, pos: start}, nil
	case "not":
		return token{kind: tokNot, text: text, pos: start}, nil
	case "true":
		return token{kind: tokNumber, text: text, num: 1, pos: start}, nil
	case "false":
		return token{kind: tokNumber, text: text, num: 0, pos: start}, nil
	default:
		return token{kind: tokIdent, text: text, pos: start}, nil
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func parseErr(pos int, format string, args ...any) *errs.Error {
	msg := fmt.Sprintf(format, args...)
	return errs.New(errs.InvalidExpression, "at position %d: %s", pos, msg)
}
