package lang

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestProgram_Format(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"var a=2*3+4;", "var a = 2 * 3 + 4;\n"},
		{"var a=(2*3)+4;", "var a = (2 * 3) + 4;\n"},
		{"var a = ((1));", "var a = 1;\n"},
		{"lambda f( x ,y )=x^y;", "lambda f(x, y) = x ^ y;\n"},
		{"lambda k()=1;", "lambda k() = 1;\n"},
		{"print((1+2)^(3));", "print((1 + 2) ^ 3);\n"},
		{"var a = 2 ^ (3 ^ 2);", "var a = 2 ^ 3 ^ 2;\n"},
		{"var a = (2 ^ 3) ^ 2;", "var a = (2 ^ 3) ^ 2;\n"},
		{"print(f(1,2),g());", "print(f(1, 2), g());\n"},
		{"var a = 7.; // comment\nprint(a);", "var a = 7.;\nprint(a);\n"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			prog, err := Parse(tt.source)
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := prog.Format(context.Background(), &buf); err != nil {
				t.Fatal(err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgram_FormatRoundTrip(t *testing.T) {
	sources := []string{
		"var a = 1 + 2 * 3 - 4 / 5 ^ 6;",
		"var a = ((1 + 2) * 3) - (4 / 5) ^ 6;",
		"var b = (((1 - 2) - 3) - 4);",
		"var c = ((2 ^ 3) ^ 4) * (5 / (6 / 7));",
		"lambda f(x, y) = (x + y) * (x - y); print(f(1, 2) ^ 2, (f(3, 4)));",
		"lambda g() = h(1) / h(2) + (h(3) * h(4)) ^ h(5);",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first, err := Parse(src)
			if err != nil {
				t.Fatal(err)
			}

			formatted := first.String()

			second, err := Parse(formatted)
			if err != nil {
				t.Fatalf("formatted source %q does not parse: %v", formatted, err)
			}

			a, b := sexprs(first), sexprs(second)
			if strings.Join(a, "\n") != strings.Join(b, "\n") {
				t.Errorf("round trip changed the tree\n got %v\nwant %v", b, a)
			}

			if second.String() != formatted {
				t.Errorf("formatting is not stable: %q != %q", second.String(), formatted)
			}
		})
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	prog, err := Parse("var a = 1;")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(context.Background(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	want := `{"statements":[{"expr":{"pos":"1:9","type":"Number","value":"1"},` +
		`"name":"a","pos":"1:5","type":"VarDecl"}]}` + "\n"

	if got := buf.String(); got != want {
		t.Errorf("FormatJSON() = %s, want %s", got, want)
	}

	buf.Reset()

	if err := prog.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "\n  \"statements\": [") {
		t.Errorf("indented JSON = %s", buf.String())
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	prog, err := Parse("lambda f(x) = x * 2; f(3);")
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := prog.FormatYAML(context.Background(), &buf, indent); err != nil {
			t.Fatal(err)
		}

		var tree struct {
			Statements []map[string]any `yaml:"statements"`
		}

		if err := yaml.Unmarshal(buf.Bytes(), &tree); err != nil {
			t.Fatalf("invalid YAML (indent %d): %v\n%s", indent, err, buf.String())
		}

		if len(tree.Statements) != 2 {
			t.Fatalf("got %d statements, want 2", len(tree.Statements))
		}

		if tree.Statements[0]["type"] != "Lambda" || tree.Statements[1]["type"] != "FuncCall" {
			t.Errorf("unexpected statement types: %v", tree.Statements)
		}

		if tree.Statements[0]["name"] != "f" {
			t.Errorf("lambda name = %v", tree.Statements[0]["name"])
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tokens, err := Tokenize("var x;")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTokens(&buf, tokens); err != nil {
		t.Fatal(err)
	}

	want := "1:1\tKeyword (\"var\")\n" +
		"1:5\tIdentifier (\"x\")\n" +
		"1:6\tSemicolon (\";\")\n"

	if got := buf.String(); got != want {
		t.Errorf("FormatTokens() = %q, want %q", got, want)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{-3, "-3"},
		{2.5, "2.5"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-07"},
		{-1.5e-9, "-1.5e-09"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if Nothing.String() != "" || Num(4).String() != "4" {
		t.Error("Value.String() mismatch")
	}
}
