// Package lexer turns source bytes into a stream of token.Token values.
//
// The cursor design (advance/peek over an explicit offset, rather than a
// bufio.Scanner or regexp split) is grounded on
// _examples/mna-nenuphar/lang/scanner/scanner.go. The token set and literal
// reading rules (no string escapes, no raw/byte string prefixes, '#'
// comments) are grounded on original_source/crates/lexer/src/lib.rs, which
// is considerably smaller than the teacher's Starlark-compatible scanner.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/mna/syphon/lang/token"
)

// Lexer scans one token.Token at a time from src.
type Lexer struct {
	src []byte
	off int // offset of the next unread byte
	cur rune
	w   int // width in bytes of cur
}

// New returns a Lexer ready to scan src.
func New(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.advance()
	return l
}

const eof = -1

func (l *Lexer) advance() {
	if l.off >= len(l.src) {
		l.cur, l.w = eof, 0
		return
	}
	r, w := utf8.DecodeRune(l.src[l.off:])
	l.cur, l.w = r, w
	l.off += w
}

// peek returns the rune that advance would consume next, without
// consuming it.
func (l *Lexer) peek() rune {
	if l.off >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(l.src[l.off:])
	return r
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= utf8.RuneSelf
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for isWhitespace(l.cur) {
			l.advance()
		}
		if l.cur == '#' {
			for l.cur != '\n' && l.cur != eof {
				l.advance()
			}
			continue
		}
		break
	}
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()
	start := l.off - l.w

	if l.cur == eof {
		return token.Token{Span: token.Span{Start: start, End: start}, Tok: token.EOF}
	}

	switch {
	case isLetter(l.cur):
		return l.ident(start)
	case isDigit(l.cur):
		return l.number(start)
	case l.cur == '"' || l.cur == '\'':
		return l.stringLit(start)
	}

	r := l.cur
	l.advance()

	mk := func(tok token.Token) token.Token {
		tok.Span = token.Span{Start: start, End: l.off - l.w}
		return tok
	}

	switch r {
	case '+':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Plus})
	case '-':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Minus})
	case '*':
		if l.cur == '*' {
			l.advance()
			return mk(token.Token{Tok: token.OperatorTok, Operator: token.StarStar})
		}
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Star})
	case '/':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Slash})
	case '%':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Percent})
	case '<':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Lt})
	case '>':
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Gt})
	case '=':
		if l.cur == '=' {
			l.advance()
			return mk(token.Token{Tok: token.OperatorTok, Operator: token.Eq})
		}
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.Assign})
	case '!':
		if l.cur == '=' {
			l.advance()
			return mk(token.Token{Tok: token.OperatorTok, Operator: token.NotEq})
		}
		return mk(token.Token{Tok: token.OperatorTok, Operator: token.Bang})
	case ',':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.Comma})
	case ':':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.Colon})
	case ';':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.Semicolon})
	case '.':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.Period})
	case '(':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.LParen})
	case ')':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.RParen})
	case '[':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.LBracket})
	case ']':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.RBracket})
	case '{':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.LBrace})
	case '}':
		return mk(token.Token{Tok: token.DelimiterTok, Delim: token.RBrace})
	default:
		return mk(token.Token{Tok: token.InvalidTok, Raw: string(r)})
	}
}

func (l *Lexer) ident(start int) token.Token {
	for isLetter(l.cur) || isDigit(l.cur) {
		l.advance()
	}
	raw := string(l.src[start : l.off-l.w])
	sp := token.Span{Start: start, End: l.off - l.w}

	switch raw {
	case "true":
		return token.Token{Span: sp, Tok: token.Bool, Bool: true, Raw: raw}
	case "false":
		return token.Token{Span: sp, Tok: token.Bool, Bool: false, Raw: raw}
	}
	if kw, ok := token.LookupKeyword(raw); ok {
		return token.Token{Span: sp, Tok: token.KeywordTok, Keyword: kw, Raw: raw}
	}
	return token.Token{Span: sp, Tok: token.Identifier, Raw: raw}
}

// number lexes a run of digits, optionally followed by a single '.' and
// more digits. It tries an int64 parse first, falling back to float64,
// matching original_source/crates/lexer/src/lib.rs's try-int-then-float
// strategy.
func (l *Lexer) number(start int) token.Token {
	isFloat := false
	for isDigit(l.cur) {
		l.advance()
	}
	if l.cur == '.' && isDigit(l.peek()) {
		isFloat = true
		l.advance()
		for isDigit(l.cur) {
			l.advance()
		}
	}
	raw := string(l.src[start : l.off-l.w])
	sp := token.Span{Start: start, End: l.off - l.w}

	if !isFloat {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return token.Token{Span: sp, Tok: token.Int, Int: n, Raw: raw}
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return token.Token{Span: sp, Tok: token.InvalidTok, Raw: raw}
	}
	return token.Token{Span: sp, Tok: token.Float, Float: f, Raw: raw}
}

// stringLit reads a quoted string with no escape processing, matching the
// original lexer: the closing quote must match the opening one.
func (l *Lexer) stringLit(start int) token.Token {
	quote := l.cur
	l.advance()
	contentStart := l.off - l.w
	for l.cur != quote && l.cur != eof {
		l.advance()
	}
	content := string(l.src[contentStart : l.off-l.w])
	sp := token.Span{Start: start, End: l.off}
	if l.cur == eof {
		return token.Token{Span: sp, Tok: token.InvalidTok, Raw: content}
	}
	l.advance() // consume closing quote
	sp.End = l.off - l.w
	return token.Token{Span: sp, Tok: token.String, Raw: content}
}
