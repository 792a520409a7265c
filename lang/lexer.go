package lang

// Tokenize splits source into tokens.
//
// Identifiers and numbers are matched by longest match. Whitespace, newlines
// and line comments are discarded. The first character that starts no token
// is reported as a [*LexicalError].
func Tokenize(source string) ([]Token, error) {
	lx := lexer{
		input: source,
		line:  1,
		col:   1,
	}

	return lx.run()
}

type lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

func (lx *lexer) run() ([]Token, error) {
	for !lx.eof() {
		ch := lx.input[lx.pos]

		switch {
		case isLetter(ch):
			n := lx.span(1, isIdentifierContinue)
			kind := KindIdentifier

			if isKeyword(lx.input[lx.pos : lx.pos+n]) {
				kind = KindKeyword
			}

			lx.emit(kind, n)

		case isDigit(ch):
			lx.emit(KindNumber, lx.numberLength())

		case ch == '/' && lx.peekAt(1) == '/':
			// The newline, if any, is left for the next iteration.
			for !lx.eof() && lx.input[lx.pos] != '\n' {
				lx.pos++
			}

		case ch == ';':
			lx.emit(KindSemicolon, 1)

		case ch == '=':
			lx.emit(KindAssign, 1)

		case isOperator(ch):
			lx.emit(KindOperator, 1)

		case ch == '(':
			lx.emit(KindBraceOpen, 1)

		case ch == ')':
			lx.emit(KindBraceClose, 1)

		case ch == ',':
			lx.emit(KindComma, 1)

		case ch == ' ', ch == '\t', ch == '\r':
			lx.pos++
			lx.col++

		case ch == '\n':
			lx.pos++
			lx.line++
			lx.col = 1

		default:
			return nil, &LexicalError{
				Pos:  Position{Line: lx.line, Column: lx.col},
				Char: lx.runeAt(),
			}
		}
	}

	return lx.tokens, nil
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.input) }

func (lx *lexer) peekAt(offset int) byte {
	if lx.pos+offset >= len(lx.input) {
		return 0
	}

	return lx.input[lx.pos+offset]
}

// runeAt decodes the full (possibly multi-byte) character at the current
// position for error reporting.
func (lx *lexer) runeAt() rune {
	for _, r := range lx.input[lx.pos:] {
		return r
	}

	return 0
}

// span returns the length of the run starting at the current position whose
// first skip bytes are already known to match and the rest satisfy fn.
func (lx *lexer) span(skip int, fn func(byte) bool) int {
	n := skip
	for lx.pos+n < len(lx.input) && fn(lx.input[lx.pos+n]) {
		n++
	}

	return n
}

// numberLength matches [0-9]+(\.[0-9]*)? at the current position.
func (lx *lexer) numberLength() int {
	n := lx.span(1, isDigit)

	if lx.peekAt(n) == '.' {
		n++
		for lx.pos+n < len(lx.input) && isDigit(lx.input[lx.pos+n]) {
			n++
		}
	}

	return n
}

func (lx *lexer) emit(kind Kind, n int) {
	lx.tokens = append(lx.tokens, Token{
		Pos:  Position{Line: lx.line, Column: lx.col},
		Kind: kind,
		Text: lx.input[lx.pos : lx.pos+n],
	})

	lx.pos += n
	lx.col += n
}

// Character classification

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentifierContinue(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isOperator(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '^':
		return true
	}

	return false
}

func isKeyword(s string) bool {
	return s == KeywordVar || s == KeywordLambda
}
