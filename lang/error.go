package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Sentinel errors. Every error produced by this package unwraps to exactly one
// of these, so callers can classify failures with errors.Is.
var (
	ErrLexical       = NewError("lexical error")
	ErrSyntax        = NewError("syntax error")
	ErrName          = NewError("name error")
	ErrRedeclaration = NewError("redeclaration error")
	ErrArity         = NewError("arity error")
	ErrRuntime       = NewError("runtime error")
	ErrReadInput     = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", or "<err>" depending on which fields are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg && t.err == nil && len(t.attrs) == 0
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexicalError reports a character that starts no token.
type LexicalError struct {
	Pos  Position
	Char rune
}

func (e *LexicalError) Error() string {
	return "line " + strconv.Itoa(e.Pos.Line) +
		", column " + strconv.Itoa(e.Pos.Column) +
		": unknown character " + strconv.QuoteRune(e.Char) +
		" (" + strconv.Itoa(int(e.Char)) + ")"
}

func (e *LexicalError) Unwrap() error { return ErrLexical }

// LogValue implements slog.LogValuer.
func (e *LexicalError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLexical.msg),
		slog.Any("pos", e.Pos),
		slog.String("char", string(e.Char)),
	)
}

// SyntaxError reports a token that does not fit the grammar. Pos is nil when
// the input ended early.
type SyntaxError struct {
	Pos      *Position
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return locate(e.Pos) + ": expected " + e.Expected + ", found " + e.Found
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrSyntax.msg),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
	}

	if e.Pos != nil {
		attrs = append(attrs, slog.Any("pos", *e.Pos))
	}

	return slog.GroupValue(attrs...)
}

// NameError reports a reference to an undeclared variable or function.
type NameError struct {
	Name     string
	Pos      Position
	Function bool
}

func (e *NameError) Error() string {
	return locate(&e.Pos) + ": " + entity(e.Function) + " " +
		strconv.Quote(e.Name) + " not found"
}

func (e *NameError) Unwrap() error { return ErrName }

// LogValue implements slog.LogValuer.
func (e *NameError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrName.msg),
		slog.String("name", e.Name),
		slog.Bool("function", e.Function),
		slog.Any("pos", e.Pos),
	)
}

// RedeclarationError reports a declaration of a name that is already bound.
type RedeclarationError struct {
	Name     string
	Pos      Position
	Function bool
}

func (e *RedeclarationError) Error() string {
	return locate(&e.Pos) + ": " + entity(e.Function) + " " +
		strconv.Quote(e.Name) + " already declared"
}

func (e *RedeclarationError) Unwrap() error { return ErrRedeclaration }

// LogValue implements slog.LogValuer.
func (e *RedeclarationError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrRedeclaration.msg),
		slog.String("name", e.Name),
		slog.Bool("function", e.Function),
		slog.Any("pos", e.Pos),
	)
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Name     string
	Expected int
	Got      int
	Pos      Position
}

func (e *ArityError) Error() string {
	return locate(&e.Pos) + ": function " + strconv.Quote(e.Name) +
		" expects " + strconv.Itoa(e.Expected) + " " +
		plural(e.Expected, "argument") + ", got " + strconv.Itoa(e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// LogValue implements slog.LogValuer.
func (e *ArityError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArity.msg),
		slog.String("name", e.Name),
		slog.Int("expected", e.Expected),
		slog.Int("got", e.Got),
		slog.Any("pos", e.Pos),
	)
}

// RuntimeError reports a failure while computing a value, such as division
// by zero.
type RuntimeError struct {
	Reason string
	Pos    Position
}

func (e *RuntimeError) Error() string {
	if e.Pos == (Position{}) {
		return e.Reason
	}

	return locate(&e.Pos) + ": " + e.Reason
}

func (e *RuntimeError) Unwrap() error { return ErrRuntime }

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrRuntime.msg),
		slog.String("reason", e.Reason),
		slog.Any("pos", e.Pos),
	)
}

// Reasons carried by [RuntimeError].
const (
	ReasonDivisionByZero = "division by zero"
	ReasonComplexPower   = "negative number cannot be raised to a fractional power"
	ReasonOutOfRange     = "result out of range"
	ReasonMaxDepth       = "maximum call depth exceeded"
)

// position extracts the source position carried by err, if any.
func position(err error) (Position, bool) {
	var (
		lex *LexicalError
		syn *SyntaxError
		nam *NameError
		red *RedeclarationError
		ari *ArityError
		run *RuntimeError
	)

	switch {
	case errors.As(err, &lex):
		return lex.Pos, true

	case errors.As(err, &syn):
		if syn.Pos == nil {
			return Position{}, false
		}

		return *syn.Pos, true

	case errors.As(err, &nam):
		return nam.Pos, true

	case errors.As(err, &red):
		return red.Pos, true

	case errors.As(err, &ari):
		return ari.Pos, true

	case errors.As(err, &run):
		return run.Pos, run.Pos != (Position{})
	}

	return Position{}, false
}

// FormatError renders err with the offending source line and a caret marking
// the reported column. Errors without a position are returned as-is.
func FormatError(err error, source string) string {
	if err == nil {
		return ""
	}

	pos, ok := position(err)
	if !ok {
		return err.Error()
	}

	var buf strings.Builder

	buf.WriteString(err.Error())
	buf.WriteRune('\n')

	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return buf.String()
	}

	line := strings.TrimRight(lines[pos.Line-1], "\r")

	buf.WriteString("  ")
	buf.WriteString(strconv.Itoa(pos.Line))
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteRune('\n')

	// 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(pos.Line))+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	buf.WriteString(padding)
	buf.WriteString("^\n")

	return buf.String()
}

func locate(pos *Position) string {
	if pos == nil {
		return "near end of input"
	}

	return "line " + strconv.Itoa(pos.Line) + ", column " + strconv.Itoa(pos.Column)
}

func entity(function bool) string {
	if function {
		return "function"
	}

	return "variable"
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}

	return noun + "s"
}
