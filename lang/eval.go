package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Execute evaluates a single node against c.
//
// Declarations and calls to built-ins yield [Nothing]. Expressions and calls
// to lambdas yield a number. Failures are one of the typed errors of this
// package, and a failure inside a lambda body leaves the scope stack as it
// was before the call.
func (c *Context) Execute(ctx context.Context, n Node) (Value, error) {
	switch n := n.(type) {
	case *Number:
		return c.executeNumber(n)

	case *Identifier:
		return c.executeIdentifier(n)

	case *VarDecl:
		return c.executeVarDecl(ctx, n)

	case *Lambda:
		return c.executeLambda(ctx, n)

	case *FuncCall:
		return c.executeFuncCall(ctx, n)

	case *Expression:
		return c.executeBinary(ctx, n.Left, n.Op, n.Right)

	case *Term:
		return c.executeBinary(ctx, n.Left, n.Op, n.Right)

	case *Power:
		return c.executePower(ctx, n)

	default:
		return Nothing, &RuntimeError{Reason: fmt.Sprintf("unsupported node %T", n)}
	}
}

func (c *Context) executeNumber(n *Number) (Value, error) {
	f, err := strconv.ParseFloat(n.Value.Text, 64)
	if err != nil {
		return Nothing, &RuntimeError{
			Reason: "malformed number " + strconv.Quote(n.Value.Text),
			Pos:    n.Value.Pos,
		}
	}

	return Num(f), nil
}

func (c *Context) executeIdentifier(n *Identifier) (Value, error) {
	f, ok := c.lookup(n.Name.Text)
	if !ok {
		return Nothing, &NameError{Name: n.Name.Text, Pos: n.Name.Pos}
	}

	return Num(f), nil
}

func (c *Context) executeVarDecl(ctx context.Context, n *VarDecl) (Value, error) {
	name := n.Name.Text

	if c.HasVar(name) {
		return Nothing, &RedeclarationError{Name: name, Pos: n.Name.Pos}
	}

	f, err := c.number(ctx, n.Expr)
	if err != nil {
		return Nothing, err
	}

	c.DeclareVar(name, f)

	c.logger.TraceContext(ctx, "declare variable",
		slog.String("name", name),
		slog.Float64("value", f),
		slog.Int("depth", len(c.scopes)),
	)

	return Nothing, nil
}

func (c *Context) executeLambda(ctx context.Context, n *Lambda) (Value, error) {
	name := n.Name.Text

	if c.HasFunction(name) {
		return Nothing, &RedeclarationError{Name: name, Pos: n.Name.Pos, Function: true}
	}

	c.RegisterFunction(name, n)

	c.logger.TraceContext(ctx, "declare function",
		slog.String("signature", n.Signature()),
	)

	return Nothing, nil
}

func (c *Context) executeFuncCall(ctx context.Context, n *FuncCall) (Value, error) {
	fn, ok := c.funcs[n.Name.Text]
	if !ok {
		return Nothing, &NameError{Name: n.Name.Text, Pos: n.Name.Pos, Function: true}
	}

	// Arguments are evaluated in the caller's scope before any new scope is
	// pushed.
	args := make([]float64, len(n.Args))

	for i, arg := range n.Args {
		f, err := c.number(ctx, arg)
		if err != nil {
			return Nothing, err
		}

		args[i] = f
	}

	return fn.invoke(ctx, c, n, args)
}

func (c *Context) executeBinary(
	ctx context.Context,
	left Node,
	op Token,
	right Node,
) (Value, error) {
	l, err := c.number(ctx, left)
	if err != nil {
		return Nothing, err
	}

	r, err := c.number(ctx, right)
	if err != nil {
		return Nothing, err
	}

	switch op.Text {
	case "+":
		return Num(l + r), nil

	case "-":
		return Num(l - r), nil

	case "*":
		return Num(l * r), nil

	case "/":
		if r == 0 {
			return Nothing, &RuntimeError{Reason: ReasonDivisionByZero, Pos: op.Pos}
		}

		return Num(l / r), nil

	default:
		return Nothing, &RuntimeError{
			Reason: "unsupported operator " + strconv.Quote(op.Text),
			Pos:    op.Pos,
		}
	}
}

func (c *Context) executePower(ctx context.Context, n *Power) (Value, error) {
	base, err := c.number(ctx, n.Base)
	if err != nil {
		return Nothing, err
	}

	exp, err := c.number(ctx, n.Exponent)
	if err != nil {
		return Nothing, err
	}

	pos := n.Pos()

	switch {
	case base == 0 && exp < 0:
		return Nothing, &RuntimeError{Reason: ReasonDivisionByZero, Pos: pos}

	case base < 0 && exp != math.Trunc(exp):
		return Nothing, &RuntimeError{Reason: ReasonComplexPower, Pos: pos}
	}

	f := math.Pow(base, exp)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Nothing, &RuntimeError{Reason: ReasonOutOfRange, Pos: pos}
	}

	return Num(f), nil
}

// number executes n and requires it to yield a number.
func (c *Context) number(ctx context.Context, n Node) (float64, error) {
	v, err := c.Execute(ctx, n)
	if err != nil {
		return 0, err
	}

	f, ok := v.Float()
	if !ok {
		reason := "expression produces no value"
		if call, isCall := n.(*FuncCall); isCall {
			reason = "call to " + strconv.Quote(call.Name.Text) + " produces no value"
		}

		return 0, &RuntimeError{Reason: reason, Pos: n.Pos()}
	}

	return f, nil
}
