package lang

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Node is a syntax tree node. The set of implementations is closed:
// [*VarDecl], [*Lambda], [*Identifier], [*Number], [*Expression], [*Term],
// [*Power] and [*FuncCall].
type Node interface {
	// Pos returns the position of the node's first token.
	Pos() Position

	node()
}

// VarDecl declares a variable: var Name = Expr.
type VarDecl struct {
	Name Token
	Expr Node
}

// Lambda declares a named single-expression function:
// lambda Name(Params...) = Body.
type Lambda struct {
	Name   Token
	Params []Token
	Body   Node
}

// Identifier references a variable.
type Identifier struct {
	Name Token
}

// Number is a numeric literal. The text is converted when evaluated.
type Number struct {
	Value Token
}

// Expression applies + or - to Left and Right.
type Expression struct {
	Left  Node
	Op    Token
	Right Node
}

// Term applies * or / to Left and Right.
type Term struct {
	Left  Node
	Op    Token
	Right Node
}

// Power raises Base to Exponent.
type Power struct {
	Base     Node
	Exponent Node
}

// FuncCall calls a built-in or a lambda by name.
type FuncCall struct {
	Name Token
	Args []Node
}

func (n *VarDecl) Pos() Position    { return n.Name.Pos }
func (n *Lambda) Pos() Position     { return n.Name.Pos }
func (n *Identifier) Pos() Position { return n.Name.Pos }
func (n *Number) Pos() Position     { return n.Value.Pos }
func (n *Expression) Pos() Position { return n.Left.Pos() }
func (n *Term) Pos() Position       { return n.Left.Pos() }
func (n *Power) Pos() Position      { return n.Base.Pos() }
func (n *FuncCall) Pos() Position   { return n.Name.Pos }

func (*VarDecl) node()    {}
func (*Lambda) node()     {}
func (*Identifier) node() {}
func (*Number) node()     {}
func (*Expression) node() {}
func (*Term) node()       {}
func (*Power) node()      {}
func (*FuncCall) node()   {}

// Signature implements [Function]. It returns the declaration head, e.g.
// "f(x, y)".
func (n *Lambda) Signature() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Text
	}

	return n.Name.Text + "(" + strings.Join(names, ", ") + ")"
}

// Program is the parsed statement list of one source text. A Program is
// never modified after parsing and may be shared.
type Program struct {
	Statements []Node
}

// All returns an iterator over the program's statements.
func (p *Program) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, stmt := range p.Statements {
			if !yield(stmt) {
				return
			}
		}
	}
}

// Len returns the number of statements.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Statements)
}

// Value is the outcome of executing a node: either a number or nothing.
// The zero Value is [Nothing].
type Value struct {
	num float64
	set bool
}

// Nothing is the Value of nodes that produce no number.
var Nothing = Value{}

// Num returns a Value holding f.
func Num(f float64) Value { return Value{num: f, set: true} }

// Float returns the number held by v and whether there is one.
func (v Value) Float() (float64, bool) { return v.num, v.set }

// IsNothing reports whether v holds no number.
func (v Value) IsNothing() bool { return !v.set }

// String returns the canonical numeric form of v, or the empty string for
// [Nothing].
func (v Value) String() string {
	if !v.set {
		return ""
	}

	return FormatNumber(v.num)
}

// FormatNumber returns the canonical string form of f: the shortest decimal
// that round-trips, without exponent for magnitudes in [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"

	case math.IsInf(f, -1):
		return "-inf"

	case math.IsNaN(f):
		return "nan"
	}

	if abs := math.Abs(f); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
