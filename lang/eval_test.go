package lang

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func newTestContext(opts ...Option) (*Context, *bytes.Buffer) {
	var out bytes.Buffer

	return NewContext(append([]Option{WithOutput(&out)}, opts...)...), &out
}

func TestRun_Output(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"declarations", "var a = 2; var b = a + 3; print(b);", "5\n"},
		{"square root", "print(100 ^ 0.5);", "10\n"},
		{"right recursive term", "print(2 * 3 + 4);", "14\n"},
		{"right recursive subtraction", "print(8 - 3 - 2);", "7\n"},
		{"right recursive division", "print(8 / 4 / 2);", "4\n"},
		{"parentheses", "print((2 * 3) + 4);", "10\n"},
		{"scope isolation", "lambda f(x) = x + 1; var x = 10; f(5); print(x);", "10\n"},
		{"multiple arguments", "print(1, 2.5, 0 - 3);", "1 2.5 -3\n"},
		{"no arguments", "print();", "\n"},
		{"trailing dot", "print(7.);", "7\n"},
		{"float rounding", "print(0.1 + 0.2);", "0.30000000000000004\n"},
		{"large", "print(10 ^ 21);", "1e+21\n"},
		{"small", "print(1 / 10000000);", "1e-07\n"},
		{"negative integer power", "print((0 - 2) ^ 3);", "-8\n"},
		{"negative exponent", "print(2 ^ (0 - 1));", "0.5\n"},
		{"lambda", "lambda sq(x) = x * x; print(sq(3), sq(sq(2)));", "9 16\n"},
		{"zero parameters", "lambda one() = 1; print(one() + one());", "2\n"},
		{"late global", "lambda f() = y; var y = 3; print(f());", "3\n"},
		{"dynamic scope", "lambda g() = x; lambda f(x) = g(); print(f(7));", "7\n"},
		{"parameter shadows global", "var x = 1; lambda f(x) = x; print(f(2), x);", "2 1\n"},
		{"separate namespaces", "var f = 2; lambda f(x) = x * f; print(f(3));", "6\n"},
		{"nested calls", "lambda f(n) = n * 2; print(f(f(f(1))));", "8\n"},
		{"comments", "// header\nvar a = 1; // one\nprint(a); // done", "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newTestContext()

			if _, err := Run(context.Background(), tt.source, c); err != nil {
				t.Fatalf("Run(%q) error: %v", tt.source, err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run(%q) printed %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestRun_RuntimeError(t *testing.T) {
	tests := []struct {
		name   string
		source string
		reason string
		pos    Position
	}{
		{"division by zero", "var a = 1/0;", ReasonDivisionByZero, Position{1, 10}},
		{"division by computed zero", "var a = 1 / (2 - 2);", ReasonDivisionByZero, Position{1, 11}},
		{"zero to negative power", "print(0 ^ (0 - 1));", ReasonDivisionByZero, Position{1, 7}},
		{"complex power", "var a = (0 - 8) ^ (1 / 3);", ReasonComplexPower, Position{1, 10}},
		{"overflow", "print(10 ^ 400);", ReasonOutOfRange, Position{1, 7}},
		{
			"print as operand", "var a = print(1);",
			`call to "print" produces no value`, Position{1, 9},
		},
		{
			"print as argument", "print(1 + print());",
			`call to "print" produces no value`, Position{1, 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()

			_, err := Run(context.Background(), tt.source, c)

			var rt *RuntimeError
			if !errors.As(err, &rt) {
				t.Fatalf("expected *RuntimeError, got %v", err)
			}

			if rt.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", rt.Reason, tt.reason)
			}

			if rt.Pos != tt.pos {
				t.Errorf("position = %v, want %v", rt.Pos, tt.pos)
			}

			if !errors.Is(err, ErrRuntime) {
				t.Error("error should match ErrRuntime")
			}
		})
	}
}

func TestRun_Redeclaration(t *testing.T) {
	c, out := newTestContext()

	_, err := Run(context.Background(), "var a = 1; var a = 2;", c)

	var red *RedeclarationError
	if !errors.As(err, &red) {
		t.Fatalf("expected *RedeclarationError, got %v", err)
	}

	if red.Name != "a" || red.Function || red.Pos != (Position{1, 16}) {
		t.Errorf("unexpected error %+v", red)
	}

	// The first binding survives.
	if _, err := Run(context.Background(), "print(a);", c); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "1\n" {
		t.Errorf("printed %q, want %q", got, "1\n")
	}
}

func TestRun_FunctionRedeclaration(t *testing.T) {
	tests := []string{
		"lambda f(x) = x; lambda f(y) = y;",
		"lambda print(x) = x;",
	}

	for _, source := range tests {
		t.Run(source, func(t *testing.T) {
			c, _ := newTestContext()

			_, err := Run(context.Background(), source, c)

			var red *RedeclarationError
			if !errors.As(err, &red) || !red.Function {
				t.Fatalf("expected function *RedeclarationError, got %v", err)
			}

			if !errors.Is(err, ErrRedeclaration) {
				t.Error("error should match ErrRedeclaration")
			}
		})
	}
}

func TestRun_NameError(t *testing.T) {
	tests := []struct {
		source   string
		name     string
		function bool
		pos      Position
	}{
		{"print(undefined_name);", "undefined_name", false, Position{1, 7}},
		{"g(1);", "g", true, Position{1, 1}},
		{"var g = 1; print(g());", "g", true, Position{1, 18}},
		{"lambda f(x) = x; print(x);", "x", false, Position{1, 24}},
		{"lambda f() = q; f();", "q", false, Position{1, 14}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			c, _ := newTestContext()

			_, err := Run(context.Background(), tt.source, c)

			var name *NameError
			if !errors.As(err, &name) {
				t.Fatalf("expected *NameError, got %v", err)
			}

			if name.Name != tt.name || name.Function != tt.function || name.Pos != tt.pos {
				t.Errorf("got %+v, want name=%q function=%v pos=%v",
					name, tt.name, tt.function, tt.pos)
			}

			if !errors.Is(err, ErrName) {
				t.Error("error should match ErrName")
			}

			if c.Depth() != 1 {
				t.Errorf("scope depth = %d after failure, want 1", c.Depth())
			}
		})
	}
}

func TestRun_ArityError(t *testing.T) {
	c, _ := newTestContext()

	_, err := Run(context.Background(), "lambda f(x) = x; f(1, 2);", c)

	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("expected *ArityError, got %v", err)
	}

	if arity.Name != "f" || arity.Expected != 1 || arity.Got != 2 {
		t.Errorf("unexpected error %+v", arity)
	}

	if !errors.Is(err, ErrArity) {
		t.Error("error should match ErrArity")
	}

	if c.Depth() != 1 {
		t.Errorf("scope depth = %d after arity failure, want 1", c.Depth())
	}
}

func TestRun_ScopePoppedAfterBodyFailure(t *testing.T) {
	c, out := newTestContext()

	_, err := Run(context.Background(), "lambda f(x) = x / 0; var y = f(1);", c)
	if !errors.Is(err, ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}

	if c.Depth() != 1 {
		t.Fatalf("scope depth = %d after body failure, want 1", c.Depth())
	}

	// The parameter did not leak, so x can be declared globally.
	if _, err := Run(context.Background(), "var x = 4; print(x);", c); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "4\n" {
		t.Errorf("printed %q", got)
	}
}

func TestRun_MaxDepth(t *testing.T) {
	c, _ := newTestContext(WithMaxDepth(50))

	_, err := Run(context.Background(), "lambda f(x) = f(x + 1); f(0);", c)

	var rt *RuntimeError
	if !errors.As(err, &rt) || rt.Reason != ReasonMaxDepth {
		t.Fatalf("expected %q, got %v", ReasonMaxDepth, err)
	}

	if c.Depth() != 1 {
		t.Errorf("scope depth = %d, want 1", c.Depth())
	}
}

func TestRun_DefaultMaxDepth(t *testing.T) {
	c, _ := newTestContext()

	_, err := Run(context.Background(), "lambda loop(x) = loop(x); loop(1);", c)

	var rt *RuntimeError
	if !errors.As(err, &rt) || rt.Reason != ReasonMaxDepth {
		t.Fatalf("expected %q, got %v", ReasonMaxDepth, err)
	}
}

func TestExecute_UnsupportedNode(t *testing.T) {
	c, _ := newTestContext()

	_, err := c.Execute(context.Background(), nil)
	if !errors.Is(err, ErrRuntime) {
		t.Errorf("expected runtime error, got %v", err)
	}
}

func TestExecute_UnsupportedOperator(t *testing.T) {
	c, _ := newTestContext()

	n := &Expression{
		Left:  &Number{Value: Token{Kind: KindNumber, Text: "1"}},
		Op:    Token{Pos: Position{1, 3}, Kind: KindOperator, Text: "%"},
		Right: &Number{Value: Token{Kind: KindNumber, Text: "2"}},
	}

	_, err := c.Execute(context.Background(), n)

	var rt *RuntimeError
	if !errors.As(err, &rt) || rt.Reason != `unsupported operator "%"` {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExecute_MalformedNumber(t *testing.T) {
	c, _ := newTestContext()

	_, err := c.Execute(context.Background(), &Number{Value: Token{Kind: KindNumber, Text: "1..2"}})
	if !errors.Is(err, ErrRuntime) {
		t.Errorf("expected runtime error, got %v", err)
	}
}
