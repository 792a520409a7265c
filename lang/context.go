package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/blogmath/log"
)

// DefaultMaxDepth is the default limit on nested lambda invocations.
// Users may modify this before calling [NewContext] to change the default.
var DefaultMaxDepth = 10000

// BuiltinPrint is the name of the built-in output function.
const BuiltinPrint = "print"

// Context is the runtime state shared by every statement evaluated in one
// session: a stack of variable scopes and a flat function table.
//
// A Context must not be used by concurrent evaluations.
type Context struct {
	scopes   []scope // outermost (global) first
	funcs    map[string]Function
	output   io.Writer
	logger   log.Logger
	maxDepth int
	depth    int
}

type scope map[string]float64

// Option configures a [Context].
type Option func(*Context)

// WithOutput sets the sink written by the print built-in.
// If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	return func(c *Context) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithMaxDepth limits nested lambda invocations. Values below 1 disable the
// limit.
func WithMaxDepth(depth int) Option {
	return func(c *Context) {
		c.maxDepth = depth
	}
}

// WithBuiltin registers an additional host function. Built-ins registered
// this way are subject to the same no-redeclaration rule as lambdas.
func WithBuiltin(b *Builtin) Option {
	return func(c *Context) {
		if b != nil && !c.HasFunction(b.Name) {
			c.RegisterFunction(b.Name, b)
		}
	}
}

// NewContext returns a Context with an empty global scope and the print
// built-in registered.
func NewContext(opts ...Option) *Context {
	c := &Context{
		funcs:    make(map[string]Function),
		output:   os.Stdout,
		maxDepth: DefaultMaxDepth,
	}

	c.EnterScope()
	c.RegisterFunction(BuiltinPrint, &Builtin{
		Name:     BuiltinPrint,
		Variadic: true,
		Fn:       printBuiltin,
	})

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Logger returns the logger used for tracing evaluation.
func (c *Context) Logger() log.Logger { return c.logger }

// Output returns the sink written by the print built-in.
func (c *Context) Output() io.Writer { return c.output }

// EnterScope pushes an empty scope.
func (c *Context) EnterScope() {
	c.scopes = append(c.scopes, make(scope))
}

// LeaveScope pops the innermost scope. The global scope is never popped.
func (c *Context) LeaveScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// Depth returns the number of scopes on the stack, including the global one.
func (c *Context) Depth() int { return len(c.scopes) }

// HasVar reports whether name is bound in any visible scope.
func (c *Context) HasVar(name string) bool {
	_, ok := c.lookup(name)

	return ok
}

// DeclareVar binds name in the innermost scope. Callers check for
// redeclaration first.
func (c *Context) DeclareVar(name string, value float64) {
	c.scopes[len(c.scopes)-1][name] = value
}

// LookupVar returns the innermost binding of name.
func (c *Context) LookupVar(name string) (float64, error) {
	v, ok := c.lookup(name)
	if !ok {
		return 0, &NameError{Name: name}
	}

	return v, nil
}

func (c *Context) lookup(name string) (float64, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}

	return 0, false
}

// HasFunction reports whether a function named name is registered.
func (c *Context) HasFunction(name string) bool {
	_, ok := c.funcs[name]

	return ok
}

// RegisterFunction adds fn to the function table. Callers check for
// redeclaration first.
func (c *Context) RegisterFunction(name string, fn Function) {
	c.funcs[name] = fn
}

// LookupFunction returns the function registered as name.
func (c *Context) LookupFunction(name string) (Function, error) {
	fn, ok := c.funcs[name]
	if !ok {
		return nil, &NameError{Name: name, Function: true}
	}

	return fn, nil
}

// Binding is a visible variable and its value.
type Binding struct {
	Name  string
	Value float64
}

// Variables returns the visible variable bindings sorted by name. Inner
// bindings hide outer ones of the same name.
func (c *Context) Variables() []Binding {
	seen := make(map[string]struct{})
	vars := make([]Binding, 0)

	for i := len(c.scopes) - 1; i >= 0; i-- {
		for name, v := range c.scopes[i] {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			vars = append(vars, Binding{Name: name, Value: v})
		}
	}

	slices.SortFunc(vars, func(a, b Binding) int {
		return strings.Compare(a.Name, b.Name)
	})

	return vars
}

// FunctionInfo describes a registered function.
type FunctionInfo struct {
	Name      string
	Signature string
	Builtin   bool
}

// Functions returns the registered functions sorted by name.
func (c *Context) Functions() []FunctionInfo {
	infos := make([]FunctionInfo, 0, len(c.funcs))

	for name, fn := range c.funcs {
		_, builtin := fn.(*Builtin)
		infos = append(infos, FunctionInfo{
			Name:      name,
			Signature: fn.Signature(),
			Builtin:   builtin,
		})
	}

	slices.SortFunc(infos, func(a, b FunctionInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	return infos
}

// Names returns every declared variable and function name, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.funcs))

	for _, b := range c.Variables() {
		names = append(names, b.Name)
	}

	for name := range c.funcs {
		names = append(names, name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Function is an entry of the function table: a [*Lambda] or a [*Builtin].
type Function interface {
	// Signature returns a human-readable call form, e.g. "f(x, y)".
	Signature() string

	invoke(ctx context.Context, c *Context, call *FuncCall, args []float64) (Value, error)
}

// Builtin is a function implemented by the host.
type Builtin struct {
	Name     string
	Params   []string // for arity checks and signatures, unless Variadic
	Variadic bool
	Fn       func(c *Context, args []float64) (Value, error)
}

// Signature implements [Function].
func (b *Builtin) Signature() string {
	if b.Variadic {
		return b.Name + "(...)"
	}

	return b.Name + "(" + strings.Join(b.Params, ", ") + ")"
}

func (b *Builtin) invoke(
	ctx context.Context,
	c *Context,
	call *FuncCall,
	args []float64,
) (Value, error) {
	if !b.Variadic && len(args) != len(b.Params) {
		return Nothing, &ArityError{
			Name:     b.Name,
			Expected: len(b.Params),
			Got:      len(args),
			Pos:      call.Pos(),
		}
	}

	c.logger.TraceContext(ctx, "call builtin",
		slog.String("name", b.Name),
		slog.Int("args", len(args)),
	)

	v, err := b.Fn(c, args)
	if err != nil {
		var rt *RuntimeError
		if errors.As(err, &rt) && rt.Pos == (Position{}) {
			rt.Pos = call.Pos()
		}

		return Nothing, err
	}

	return v, nil
}

func (n *Lambda) invoke(
	ctx context.Context,
	c *Context,
	call *FuncCall,
	args []float64,
) (Value, error) {
	if len(args) != len(n.Params) {
		return Nothing, &ArityError{
			Name:     n.Name.Text,
			Expected: len(n.Params),
			Got:      len(args),
			Pos:      call.Pos(),
		}
	}

	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		return Nothing, &RuntimeError{Reason: ReasonMaxDepth, Pos: call.Pos()}
	}

	c.depth++
	c.EnterScope()

	defer func() {
		c.LeaveScope()
		c.depth--

		c.logger.TraceContext(ctx, "leave scope",
			slog.String("function", n.Name.Text),
			slog.Int("depth", len(c.scopes)),
		)
	}()

	c.logger.TraceContext(ctx, "enter scope",
		slog.String("function", n.Name.Text),
		slog.Int("depth", len(c.scopes)),
	)

	for i, param := range n.Params {
		c.DeclareVar(param.Text, args[i])
	}

	return c.Execute(ctx, n.Body)
}

// printBuiltin writes its arguments separated by single spaces.
func printBuiltin(c *Context, args []float64) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = FormatNumber(a)
	}

	if _, err := fmt.Fprintln(c.output, strings.Join(parts, " ")); err != nil {
		return Nothing, &RuntimeError{Reason: "print: " + err.Error()}
	}

	return Nothing, nil
}
