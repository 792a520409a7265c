package lang

import (
	"context"
	"iter"
)

// Evaluate parses source and returns a sequence that executes its statements
// against c, one per pull.
//
// Lexical and syntax errors are returned immediately and leave c untouched.
// Otherwise each statement that yields a number produces (v, nil). The first
// runtime error is produced as (Nothing, err) and ends the sequence; the
// effects of statements executed before it remain in c.
//
// The sequence is single-use: ranging over it a second time produces nothing.
func Evaluate(
	ctx context.Context,
	source string,
	c *Context,
) (iter.Seq2[Value, error], error) {
	prog, err := ParseCached(ctx, source, c.logger)
	if err != nil {
		return nil, err
	}

	return c.Statements(ctx, prog), nil
}

// Run evaluates every statement of source against c and collects the values
// they yield. On a runtime error, the values yielded before it are returned
// along with the error.
func Run(ctx context.Context, source string, c *Context) ([]Value, error) {
	seq, err := Evaluate(ctx, source, c)
	if err != nil {
		return nil, err
	}

	values := make([]Value, 0)

	for v, err := range seq {
		if err != nil {
			return values, err
		}

		values = append(values, v)
	}

	return values, nil
}

// Evaluate is the method form of [Evaluate].
func (c *Context) Evaluate(
	ctx context.Context,
	source string,
) (iter.Seq2[Value, error], error) {
	return Evaluate(ctx, source, c)
}

// Run is the method form of [Run].
func (c *Context) Run(ctx context.Context, source string) ([]Value, error) {
	return Run(ctx, source, c)
}

// Statements returns a single-use sequence executing the statements of prog
// against c. See [Evaluate].
func (c *Context) Statements(
	ctx context.Context,
	prog *Program,
) iter.Seq2[Value, error] {
	var used bool

	return func(yield func(Value, error) bool) {
		if used {
			return
		}

		used = true

		for stmt := range prog.All() {
			v, err := c.Execute(ctx, stmt)
			if err != nil {
				yield(Nothing, err)

				return
			}

			if v.IsNothing() {
				continue
			}

			if !yield(v, nil) {
				return
			}
		}
	}
}
