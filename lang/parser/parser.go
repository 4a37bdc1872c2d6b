// Package parser implements a Pratt (precedence-climbing) parser that
// turns a token.Token stream into an *ast.Module.
//
// The precedence ladder and the expr/binary-operation split is grounded on
// original_source/crates/parser/src/{precedence,expr,stmt}.rs. The
// expect/error/panic-to-recover control flow (rather than returning an
// error from every call) is grounded on
// _examples/mna-nenuphar/lang/parser/parser.go, adapted so that, per
// spec.md §4.2/§7, the *first* syntax error aborts parsing the whole
// module instead of being recovered and accumulated.
//
// One deviation from original_source/crates/parser/src/precedence.rs is
// corrected here: that file maps '[' (array subscript) to the lowest
// precedence tier, which would make the precedence-climbing loop's
// `precedence < peek-precedence` guard never select it. Subscripting is
// mapped to the same tier as a function call (both are postfix operators
// applied directly to a primary expression), which is the only mapping
// that lets `a[0]` or `f()[0]` actually parse.
package parser

import (
	"fmt"

	"github.com/mna/syphon/lang/ast"
	"github.com/mna/syphon/lang/lexer"
	"github.com/mna/syphon/lang/token"
)

// precedence mirrors original_source/crates/parser/src/precedence.rs's
// Precedence enum.
type precedence int

const (
	precLowest precedence = iota
	precAssign
	precComparison
	precSum
	precProduct
	precExponent
	precPrefix
	precCall
)

func operatorPrecedence(t token.Token) precedence {
	switch t.Tok {
	case token.OperatorTok:
		switch t.Operator {
		case token.Eq, token.NotEq, token.Lt, token.Gt:
			return precComparison
		case token.Plus, token.Minus:
			return precSum
		case token.Slash, token.Star, token.Percent:
			return precProduct
		case token.StarStar:
			return precExponent
		}
	case token.DelimiterTok:
		switch t.Delim {
		case token.LParen, token.LBracket:
			return precCall
		case token.Assign:
			return precAssign
		}
	}
	return precLowest
}

// parseError is used with panic/recover to unwind to ParseModule on the
// first syntax error, matching spec.md's first-error-abort semantics.
type parseError struct{ err *token.Error }

// parser holds the mutable state of a single parse.
type parser struct {
	src []byte
	lex *lexer.Lexer
	tok token.Token
}

func (p *parser) loc(sp token.Span) token.Location { return sp.Location(p.src) }

func (p *parser) advance() { p.tok = p.lex.Next() }

func (p *parser) fail(e *token.Error) {
	panic(parseError{e})
}

func (p *parser) errorf(sp token.Span, format string, args ...any) {
	p.fail(token.Unexpected(p.loc(sp), fmt.Sprintf(format, args...)))
}

// expectDelim consumes the current token if it is the wanted delimiter,
// reporting an error and aborting otherwise.
func (p *parser) expectDelim(d token.Delimiter, what string) {
	if p.tok.Tok != token.DelimiterTok || p.tok.Delim != d {
		p.fail(token.Expected(p.loc(p.tok.Span), what))
	}
	p.advance()
}

func (p *parser) atDelim(d token.Delimiter) bool {
	return p.tok.Tok == token.DelimiterTok && p.tok.Delim == d
}

func (p *parser) atKeyword(k token.Keyword) bool {
	return p.tok.Tok == token.KeywordTok && p.tok.Keyword == k
}

// ParseModule parses the full source as a module. On the first syntax
// error it returns that error (a *token.Error) and a nil module.
func ParseModule(src []byte) (mod *ast.Module, err error) {
	p := &parser{src: src, lex: lexer.New(src)}
	p.advance()

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(parseError); ok {
				err = pe.err
				mod = nil
				return
			}
			panic(r)
		}
	}()

	var body []ast.Stmt
	for p.tok.Tok != token.EOF {
		body = append(body, p.parseStmt())
	}
	return &ast.Module{Body: body}, nil
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.atKeyword(token.Let):
		return p.parseVariableDecl(true)
	case p.atKeyword(token.Const):
		return p.parseVariableDecl(false)
	case p.atKeyword(token.Fn):
		return p.parseFunctionDecl()
	case p.atKeyword(token.Return):
		return p.parseReturn()
	case p.atKeyword(token.If):
		return p.parseIf()
	case p.atKeyword(token.While):
		return p.parseWhile()
	case p.atKeyword(token.Break):
		loc := p.loc(p.tok.Span)
		p.advance()
		p.expectDelim(token.Semicolon, "';' after 'break'")
		return &ast.BreakStmt{Loc: loc}
	case p.atKeyword(token.Continue):
		loc := p.loc(p.tok.Span)
		p.advance()
		p.expectDelim(token.Semicolon, "';' after 'continue'")
		return &ast.ContinueStmt{Loc: loc}
	default:
		loc := p.loc(p.tok.Span)
		x := p.parseExpr(precLowest)
		p.expectDelim(token.Semicolon, "';' after expression")
		return &ast.ExprStmt{X: x, Loc: loc}
	}
}

func (p *parser) parseBlock() []ast.Stmt {
	p.expectDelim(token.LBrace, "'{'")
	var body []ast.Stmt
	for !p.atDelim(token.RBrace) && p.tok.Tok != token.EOF {
		body = append(body, p.parseStmt())
	}
	p.expectDelim(token.RBrace, "'}' to close block")
	return body
}

func (p *parser) parseVariableDecl(mutable bool) ast.Stmt {
	loc := p.loc(p.tok.Span)
	p.advance() // let/const

	if p.tok.Tok != token.Identifier {
		p.fail(token.Expected(p.loc(p.tok.Span), "a name"))
	}
	name := p.tok.Raw
	p.advance()

	var value ast.Expr
	if p.atDelim(token.Assign) {
		p.advance()
		value = p.parseExpr(precLowest)
	}
	p.expectDelim(token.Semicolon, "';' after declaration")
	return &ast.VariableDecl{Mutable: mutable, Name: name, Value: value, Loc: loc}
}

func (p *parser) parseFunctionDecl() ast.Stmt {
	loc := p.loc(p.tok.Span)
	p.advance() // fn

	if p.tok.Tok != token.Identifier {
		p.fail(token.Expected(p.loc(p.tok.Span), "a function name"))
	}
	name := p.tok.Raw
	p.advance()

	p.expectDelim(token.LParen, "'(' after function name")
	var params []string
	if !p.atDelim(token.RParen) {
		for {
			if p.tok.Tok != token.Identifier {
				p.fail(token.Expected(p.loc(p.tok.Span), "a parameter name"))
			}
			params = append(params, p.tok.Raw)
			p.advance()
			if !p.atDelim(token.Comma) {
				break
			}
			p.advance()
		}
	}
	p.expectDelim(token.RParen, "')' to close parameter list")

	body := p.parseBlock()
	return &ast.FunctionDecl{Name: name, Parameters: params, Body: body, Loc: loc}
}

func (p *parser) parseReturn() ast.Stmt {
	loc := p.loc(p.tok.Span)
	p.advance()
	var value ast.Expr
	if !p.atDelim(token.Semicolon) {
		value = p.parseExpr(precLowest)
	}
	p.expectDelim(token.Semicolon, "';' after return")
	return &ast.ReturnStmt{Value: value, Loc: loc}
}

func (p *parser) parseIf() ast.Stmt {
	loc := p.loc(p.tok.Span)
	p.advance() // if
	cond := p.parseExpr(precLowest)
	then := p.parseBlock()

	var els []ast.Stmt
	if p.atKeyword(token.Else) {
		p.advance()
		if p.atKeyword(token.If) {
			els = []ast.Stmt{p.parseIf()}
		} else {
			els = p.parseBlock()
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Loc: loc}
}

func (p *parser) parseWhile() ast.Stmt {
	loc := p.loc(p.tok.Span)
	p.advance() // while
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Loc: loc}
}

// parseExpr implements precedence climbing: parse a unary/primary
// expression, then repeatedly fold in binary/postfix operators whose
// precedence is above the caller's minimum.
func (p *parser) parseExpr(min precedence) ast.Expr {
	left := p.parsePrimary()
	for operatorPrecedence(p.tok) > min {
		left = p.parseInfix(left)
	}
	return left
}

func (p *parser) parsePrimary() ast.Expr {
	loc := p.loc(p.tok.Span)
	switch {
	case p.tok.Tok == token.OperatorTok && (p.tok.Operator == token.Minus || p.tok.Operator == token.Bang):
		op := p.tok.Operator
		p.advance()
		right := p.parseExpr(precPrefix)
		return &ast.UnaryExpr{Op: op, Right: right, Loc: loc}

	case p.atDelim(token.LParen):
		p.advance()
		v := p.parseExpr(precLowest)
		p.expectDelim(token.RParen, "')' to close '('")
		return v

	case p.atDelim(token.LBracket):
		p.advance()
		var elems []ast.Expr
		if !p.atDelim(token.RBracket) {
			elems = append(elems, p.parseExpr(precLowest))
			for p.atDelim(token.Comma) {
				p.advance()
				if p.atDelim(token.RBracket) {
					break
				}
				elems = append(elems, p.parseExpr(precLowest))
			}
		}
		p.expectDelim(token.RBracket, "']' to close array")
		return &ast.ArrayLit{Elements: elems, Loc: loc}

	case p.tok.Tok == token.Identifier:
		name := p.tok.Raw
		p.advance()
		return &ast.Identifier{Name: name, Loc: loc}

	case p.tok.Tok == token.String:
		v := p.tok.Raw
		p.advance()
		return &ast.StringLit{Value: v, Loc: loc}

	case p.tok.Tok == token.Int:
		v := p.tok.Int
		p.advance()
		return &ast.IntLit{Value: v, Loc: loc}

	case p.tok.Tok == token.Float:
		v := p.tok.Float
		p.advance()
		return &ast.FloatLit{Value: v, Loc: loc}

	case p.tok.Tok == token.Bool:
		v := p.tok.Bool
		p.advance()
		return &ast.BoolLit{Value: v, Loc: loc}

	case p.atKeyword(token.None):
		p.advance()
		return &ast.NoneLit{Loc: loc}

	default:
		p.errorf(p.tok.Span, "token %s", p.tok.String())
		panic("unreachable")
	}
}

func (p *parser) parseInfix(left ast.Expr) ast.Expr {
	loc := p.loc(p.tok.Span)

	switch {
	case p.tok.Tok == token.OperatorTok:
		op := p.tok.Operator
		prec := operatorPrecedence(p.tok)
		p.advance()
		// '**' is right-associative (spec.md's precedence table: "Exponent |
		// right"), so its right operand is parsed one precedence level lower
		// than itself: that lets a further '**' to the right re-enter this
		// same tier instead of stopping at it, so `2 ** 3 ** 2` groups as
		// `2 ** (3 ** 2)`. Every other binary operator here is left-associative,
		// so its right operand is parsed at its own precedence, which stops
		// the climb at same-precedence operators and lets the caller's loop
		// fold them left-to-right instead.
		rightMin := prec
		if op == token.StarStar {
			rightMin = prec - 1
		}
		right := p.parseExpr(rightMin)
		return &ast.BinaryExpr{Left: left, Op: op, Right: right, Loc: loc}

	case p.atDelim(token.Assign):
		p.advance()
		value := p.parseExpr(precLowest)
		switch target := left.(type) {
		case *ast.Identifier:
			return &ast.AssignExpr{Name: target.Name, Value: value, Loc: loc}
		case *ast.SubscriptExpr:
			return &ast.AssignSubscriptExpr{Array: target.Array, Index: target.Index, Value: value, Loc: loc}
		default:
			p.fail(token.Expected(loc, "a name or subscript on the left of '='"))
			panic("unreachable")
		}

	case p.atDelim(token.LParen):
		p.advance()
		var args []ast.Expr
		if !p.atDelim(token.RParen) {
			args = append(args, p.parseExpr(precLowest))
			for p.atDelim(token.Comma) {
				p.advance()
				if p.atDelim(token.RParen) {
					break
				}
				args = append(args, p.parseExpr(precLowest))
			}
		}
		p.expectDelim(token.RParen, "')' to close call arguments")
		return &ast.CallExpr{Callee: left, Args: args, Loc: loc}

	case p.atDelim(token.LBracket):
		p.advance()
		index := p.parseExpr(precLowest)
		p.expectDelim(token.RBracket, "']' to close subscript")
		return &ast.SubscriptExpr{Array: left, Index: index, Loc: loc}

	default:
		return left
	}
}
