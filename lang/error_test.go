package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"lexical", "var a = 5 $;", `line 1, column 11: unknown character '$' (36)`},
		{"syntax", "var = 5;", `line 1, column 5: expected Identifier, found Assign ("=")`},
		{"syntax at end", "var a = 5", `near end of input: expected Semicolon, found end of input`},
		{"name", "print(undefined_name);", `line 1, column 7: variable "undefined_name" not found`},
		{"function name", "g();", `line 1, column 1: function "g" not found`},
		{"redeclaration", "var a = 1; var a = 2;", `line 1, column 16: variable "a" already declared`},
		{
			"arity", "lambda f(x) = x; f(1, 2);",
			`line 1, column 18: function "f" expects 1 argument, got 2`,
		},
		{
			"arity plural", "lambda f(x, y) = x; f(1);",
			`line 1, column 21: function "f" expects 2 arguments, got 1`,
		},
		{"runtime", "var a = 1/0;", `line 1, column 10: division by zero`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()

			_, err := Run(context.Background(), tt.source, c)
			if err == nil {
				t.Fatal("expected an error")
			}

			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrors_Sentinels(t *testing.T) {
	sentinels := []*Error{
		ErrLexical, ErrSyntax, ErrName, ErrRedeclaration, ErrArity, ErrRuntime,
	}

	errs := []error{
		&LexicalError{},
		&SyntaxError{},
		&NameError{},
		&RedeclarationError{},
		&ArityError{},
		&RuntimeError{},
	}

	for i, err := range errs {
		for j, sentinel := range sentinels {
			if got := errors.Is(err, sentinel); got != (i == j) {
				t.Errorf("errors.Is(%T, %v) = %v", err, sentinel, got)
			}
		}
	}
}

func TestError_WrapAndWith(t *testing.T) {
	err := ErrReadInput.Wrap(io.ErrUnexpectedEOF).With(slog.String("source", "a.bm"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("wrapped error should match its sentinel")
	}

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("wrapped error should match its cause")
	}

	if errors.Is(err, ErrRuntime) {
		t.Error("wrapped error should not match another sentinel")
	}

	if got, want := err.Error(), "failed to read input: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	attrs := err.LogValue().Group()
	if len(attrs) != 3 || attrs[2].Key != "source" {
		t.Errorf("LogValue() = %v", attrs)
	}
}

func TestErrors_LogValue(t *testing.T) {
	pos := Position{Line: 2, Column: 3}

	errs := []slog.LogValuer{
		&LexicalError{Pos: pos, Char: '$'},
		&SyntaxError{Pos: &pos, Expected: "Semicolon", Found: "end of input"},
		&SyntaxError{Expected: "Semicolon", Found: "end of input"},
		&NameError{Name: "x", Pos: pos},
		&RedeclarationError{Name: "x", Pos: pos, Function: true},
		&ArityError{Name: "f", Expected: 1, Got: 2, Pos: pos},
		&RuntimeError{Reason: ReasonDivisionByZero, Pos: pos},
	}

	for _, err := range errs {
		v := err.LogValue()
		if v.Kind() != slog.KindGroup {
			t.Errorf("%T.LogValue() kind = %v", err, v.Kind())

			continue
		}

		if attrs := v.Group(); len(attrs) == 0 || attrs[0].Key != "error" {
			t.Errorf("%T.LogValue() = %v", err, attrs)
		}
	}
}

func TestFormatError(t *testing.T) {
	source := "var a = 1;\nvar b = a / 0;"

	c, _ := newTestContext()

	_, err := Run(context.Background(), source, c)
	if err == nil {
		t.Fatal("expected an error")
	}

	want := "line 2, column 11: division by zero\n" +
		"  2 | var b = a / 0;\n" +
		"                ^\n"

	if got := FormatError(err, source); got != want {
		t.Errorf("FormatError() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatError_WithoutPosition(t *testing.T) {
	_, err := Parse("var a = 1")

	if got, want := FormatError(err, "var a = 1"), err.Error(); got != want {
		t.Errorf("FormatError() = %q, want %q", got, want)
	}

	if FormatError(nil, "") != "" {
		t.Error("nil error should format as empty")
	}
}
