package lang

import (
	"log/slog"
	"strconv"
)

// Position is a 1-based line and column in source text.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Kind classifies a token.
type Kind int

const (
	KindIdentifier Kind = iota // Identifier
	KindKeyword                // Keyword
	KindNumber                 // Number
	KindOperator               // Operator
	KindBraceOpen              // BraceOpen
	KindBraceClose             // BraceClose
	KindAssign                 // Assign
	KindSemicolon              // Semicolon
	KindComma                  // Comma
)

// String returns the name of the token kind used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "Identifier"

	case KindKeyword:
		return "Keyword"

	case KindNumber:
		return "Number"

	case KindOperator:
		return "Operator"

	case KindBraceOpen:
		return "BraceOpen"

	case KindBraceClose:
		return "BraceClose"

	case KindAssign:
		return "Assign"

	case KindSemicolon:
		return "Semicolon"

	case KindComma:
		return "Comma"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Reserved words.
const (
	KeywordVar    = "var"
	KeywordLambda = "lambda"
)

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return []string{KeywordVar, KeywordLambda}
}

// Token is a lexical unit with the position of its first character.
type Token struct {
	Pos  Position `json:"pos"  yaml:"pos"`
	Kind Kind     `json:"kind" yaml:"kind"`
	Text string   `json:"text" yaml:"text"`
}

// Is reports whether t has kind k and, if any texts are given, one of them.
func (t Token) Is(k Kind, text ...string) bool {
	if t.Kind != k {
		return false
	}

	if len(text) == 0 {
		return true
	}

	for _, s := range text {
		if t.Text == s {
			return true
		}
	}

	return false
}

// String returns a short description of the token, e.g. Number ("5").
func (t Token) String() string {
	return t.Kind.String() + " (" + strconv.Quote(t.Text) + ")"
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("text", t.Text),
		slog.Any("pos", t.Pos),
	)
}
