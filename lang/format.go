package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program as canonical source, one statement per line.
// The output parses back to a program of the same shape.
func (p *Program) Format(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, p.String())

	return err
}

// String returns the canonical source of the program.
func (p *Program) String() string {
	var sb strings.Builder

	for stmt := range p.All() {
		formatNode(&sb, stmt)
		sb.WriteString(";\n")
	}

	return sb.String()
}

// FormatJSON writes the syntax tree as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the syntax tree as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// FormatTokens writes one token per line: position, kind and text.
func FormatTokens(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", t.Pos, t); err != nil {
			return err
		}
	}

	return nil
}

// FormatNode returns the canonical source of a single node.
func FormatNode(n Node) string {
	var sb strings.Builder

	formatNode(&sb, n)

	return sb.String()
}

// formatNode writes n in native syntax.
//
// Every binary operator takes a full Expression on its right, so right
// operands never need parentheses. A binary left operand (or base) always
// does.
func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *VarDecl:
		sb.WriteString(KeywordVar + " " + n.Name.Text + " = ")
		formatNode(sb, n.Expr)

	case *Lambda:
		sb.WriteString(KeywordLambda + " " + n.Signature() + " = ")
		formatNode(sb, n.Body)

	case *Identifier:
		sb.WriteString(n.Name.Text)

	case *Number:
		sb.WriteString(n.Value.Text)

	case *Expression:
		formatOperand(sb, n.Left)
		sb.WriteString(" " + n.Op.Text + " ")
		formatNode(sb, n.Right)

	case *Term:
		formatOperand(sb, n.Left)
		sb.WriteString(" " + n.Op.Text + " ")
		formatNode(sb, n.Right)

	case *Power:
		formatOperand(sb, n.Base)
		sb.WriteString(" ^ ")
		formatNode(sb, n.Exponent)

	case *FuncCall:
		sb.WriteString(n.Name.Text + "(")

		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatNode(sb, arg)
		}

		sb.WriteString(")")

	default:
		sb.WriteString("<unknown>")
	}
}

func formatOperand(sb *strings.Builder, n Node) {
	switch n.(type) {
	case *Expression, *Term, *Power:
		sb.WriteString("(")
		formatNode(sb, n)
		sb.WriteString(")")

	default:
		formatNode(sb, n)
	}
}

// ToMap converts the program to a map representation for serialization.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, 0, p.Len())
	for stmt := range p.All() {
		stmts = append(stmts, NodeToMap(stmt))
	}

	return map[string]any{"statements": stmts}
}

// NodeToMap converts a node to a map with a "type" key naming its variant.
func NodeToMap(n Node) map[string]any {
	switch n := n.(type) {
	case *VarDecl:
		return map[string]any{
			"type": "VarDecl",
			"pos":  n.Pos().String(),
			"name": n.Name.Text,
			"expr": NodeToMap(n.Expr),
		}

	case *Lambda:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Text
		}

		return map[string]any{
			"type":   "Lambda",
			"pos":    n.Pos().String(),
			"name":   n.Name.Text,
			"params": params,
			"body":   NodeToMap(n.Body),
		}

	case *Identifier:
		return map[string]any{
			"type": "Identifier",
			"pos":  n.Pos().String(),
			"name": n.Name.Text,
		}

	case *Number:
		return map[string]any{
			"type":  "Number",
			"pos":   n.Pos().String(),
			"value": n.Value.Text,
		}

	case *Expression:
		return binaryToMap("Expression", n.Left, n.Op, n.Right)

	case *Term:
		return binaryToMap("Term", n.Left, n.Op, n.Right)

	case *Power:
		return map[string]any{
			"type":     "Power",
			"pos":      n.Pos().String(),
			"base":     NodeToMap(n.Base),
			"exponent": NodeToMap(n.Exponent),
		}

	case *FuncCall:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = NodeToMap(arg)
		}

		return map[string]any{
			"type": "FuncCall",
			"pos":  n.Pos().String(),
			"name": n.Name.Text,
			"args": args,
		}

	default:
		return map[string]any{"type": fmt.Sprintf("%T", n)}
	}
}

func binaryToMap(kind string, left Node, op Token, right Node) map[string]any {
	return map[string]any{
		"type":  kind,
		"pos":   left.Pos().String(),
		"op":    op.Text,
		"left":  NodeToMap(left),
		"right": NodeToMap(right),
	}
}
