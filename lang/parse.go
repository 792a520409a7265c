package lang

import (
	"strconv"
	"strings"
)

// Parse tokenizes and parses source into a [Program].
//
// The whole input is consumed before anything is returned; a lexical or
// syntax error anywhere in source means no Program at all.
func Parse(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses a token sequence into a [Program].
func ParseTokens(tokens []Token) (*Program, error) {
	p := &parser{tokens: tokens}

	return p.parseProgram()
}

// parser holds the parser state.
type parser struct {
	tokens []Token
	pos    int
}

// parseProgram parses: (Statement ";")*.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Statements: make([]Node, 0)}

	for !p.eof() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindSemicolon); err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// parseStatement parses: VarDecl | Lambda | FuncCall.
func (p *parser) parseStatement() (Node, error) {
	t, ok := p.peek(0)
	if !ok {
		return nil, p.errorf("keyword or function call")
	}

	switch {
	case t.Is(KindKeyword, KeywordVar):
		return p.parseVarDecl()

	case t.Is(KindKeyword, KeywordLambda):
		return p.parseLambda()

	case t.Is(KindIdentifier):
		return p.parseFuncCall()

	default:
		return nil, p.errorf("keyword or function call")
	}
}

// parseVarDecl parses: "var" IDENT "=" Expression.
func (p *parser) parseVarDecl() (Node, error) {
	if _, err := p.expect(KindKeyword, KeywordVar); err != nil {
		return nil, err
	}

	name, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindAssign); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &VarDecl{Name: name, Expr: expr}, nil
}

// parseLambda parses: "lambda" IDENT "(" ParamList? ")" "=" Expression.
func (p *parser) parseLambda() (Node, error) {
	if _, err := p.expect(KindKeyword, KeywordLambda); err != nil {
		return nil, err
	}

	name, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindBraceOpen); err != nil {
		return nil, err
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindBraceClose); err != nil {
		return nil, err
	}

	if _, err := p.expect(KindAssign); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Lambda{Name: name, Params: params, Body: body}, nil
}

// parseParamList parses: (IDENT ("," IDENT)*)?.
func (p *parser) parseParamList() ([]Token, error) {
	params := make([]Token, 0)

	if p.at(KindBraceClose) {
		return params, nil
	}

	for {
		param, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}

		params = append(params, param)

		if !p.at(KindComma) {
			return params, nil
		}

		p.advance()
	}
}

// parseExpression parses: Term (("+" | "-") Expression)?.
func (p *parser) parseExpression() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if !p.at(KindOperator, "+", "-") {
		return left, nil
	}

	op := p.advance()

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Expression{Left: left, Op: op, Right: right}, nil
}

// parseTerm parses: Power (("*" | "/") Expression)?.
//
// The right operand is a full Expression, so 2*3+4 is 2*(3+4).
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	if !p.at(KindOperator, "*", "/") {
		return left, nil
	}

	op := p.advance()

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Term{Left: left, Op: op, Right: right}, nil
}

// parsePower parses: Factor ("^" Expression)?.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	if !p.at(KindOperator, "^") {
		return base, nil
	}

	p.advance()

	exponent, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Power{Base: base, Exponent: exponent}, nil
}

// parseFactor parses: IDENT | FuncCall | NUMBER | "(" Expression ")".
func (p *parser) parseFactor() (Node, error) {
	const expected = "identifier, function call, number or \"(\""

	t, ok := p.peek(0)
	if !ok {
		return nil, p.errorf(expected)
	}

	switch t.Kind {
	case KindIdentifier:
		if next, ok := p.peek(1); ok && next.Kind == KindBraceOpen {
			return p.parseFuncCall()
		}

		return &Identifier{Name: p.advance()}, nil

	case KindNumber:
		return &Number{Value: p.advance()}, nil

	case KindBraceOpen:
		p.advance()

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(KindBraceClose); err != nil {
			return nil, err
		}

		return expr, nil

	default:
		return nil, p.errorf(expected)
	}
}

// parseFuncCall parses: IDENT "(" ArgList? ")".
func (p *parser) parseFuncCall() (Node, error) {
	name, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindBraceOpen); err != nil {
		return nil, err
	}

	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindBraceClose); err != nil {
		return nil, err
	}

	return &FuncCall{Name: name, Args: args}, nil
}

// parseArgList parses: (Expression ("," Expression)*)?.
func (p *parser) parseArgList() ([]Node, error) {
	args := make([]Node, 0)

	if p.at(KindBraceClose) {
		return args, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.at(KindComma) {
			return args, nil
		}

		p.advance()
	}
}

// Helper methods

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

// peek returns the token n positions ahead of the current one.
func (p *parser) peek(n int) (Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.pos+n], true
}

// at reports whether the current token has kind k and one of text, if given.
func (p *parser) at(k Kind, text ...string) bool {
	t, ok := p.peek(0)

	return ok && t.Is(k, text...)
}

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	p.pos++

	return t
}

// expect consumes the current token if it has kind k (and one of text, if
// given), or reports what was expected instead.
func (p *parser) expect(k Kind, text ...string) (Token, error) {
	if !p.at(k, text...) {
		return Token{}, p.errorf(describe(k, text...))
	}

	return p.advance(), nil
}

// errorf builds a SyntaxError against the current token.
func (p *parser) errorf(expected string) error {
	t, ok := p.peek(0)
	if !ok {
		return &SyntaxError{Expected: expected, Found: "end of input"}
	}

	pos := t.Pos

	return &SyntaxError{Pos: &pos, Expected: expected, Found: t.String()}
}

// describe renders an expectation such as Operator ("+" or "-").
func describe(k Kind, text ...string) string {
	if len(text) == 0 {
		return k.String()
	}

	quoted := make([]string, len(text))
	for i, s := range text {
		quoted[i] = strconv.Quote(s)
	}

	return k.String() + " (" + strings.Join(quoted, " or ") + ")"
}
