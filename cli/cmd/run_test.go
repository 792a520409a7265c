package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/blogmath/lang"
)

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()

	first := writeSource(t, dir, "first.bm", "lambda sq(x) = x * x;\nvar a = 3;\n")
	second := writeSource(t, dir, "second.bm", "print(sq(a));\nsq(2);\n")

	ctx, out, errOut := testStreams("")

	r := &Run{Files: []string{first, second}, MaxDepth: 100}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v\n%s", err, errOut)
	}

	// Yielded values are not printed in batch mode.
	if got := out.String(); got != "9\n" {
		t.Errorf("output = %q, want %q", got, "9\n")
	}

	if errOut.Len() != 0 {
		t.Errorf("unexpected diagnostics: %q", errOut)
	}
}

func TestRun_Stdin(t *testing.T) {
	ctx, out, _ := testStreams("var x = 2 * 3 + 4; print(x);")

	r := &Run{Files: []string{"-"}, MaxDepth: 100}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "14\n" {
		t.Errorf("output = %q, want %q", got, "14\n")
	}
}

func TestRun_Failure(t *testing.T) {
	tests := []struct {
		name      string
		sources   []string
		keepGoing bool
		wantOut   string
		wantDiag  []string
		wantCause error
	}{
		{
			name:      "runtime error stops the run",
			sources:   []string{"print(1);\nvar a = 1 / 0;\nprint(2);\n", "print(3);\n"},
			wantOut:   "1\n",
			wantDiag:  []string{"1.bm: line 2, column 11: division by zero", "  2 | var a = 1 / 0;"},
			wantCause: lang.ErrRuntime,
		},
		{
			name:      "syntax error runs nothing",
			sources:   []string{"print(1);\nprint(2)\n"},
			wantOut:   "",
			wantDiag:  []string{"1.bm: ", "expected"},
			wantCause: lang.ErrSyntax,
		},
		{
			name:      "keep going",
			sources:   []string{"print(y);\n", "var y = 5;\n", "print(y);\n"},
			keepGoing: true,
			wantOut:   "5\n",
			wantDiag:  []string{`1.bm: line 1, column 7: variable "y" not found`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			files := make([]string, len(tt.sources))
			for i, src := range tt.sources {
				files[i] = writeSource(t, dir, string(rune('1'+i))+".bm", src)
			}

			ctx, out, errOut := testStreams("")

			r := &Run{Files: files, KeepGoing: tt.keepGoing, MaxDepth: 100}
			err := r.Run(ctx)

			if !errors.Is(err, ErrEvaluate) {
				t.Fatalf("Run() error = %v, want ErrEvaluate", err)
			}

			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("Run() error = %v, want cause %v", err, tt.wantCause)
			}

			if got := out.String(); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}

			for _, want := range tt.wantDiag {
				if !strings.Contains(errOut.String(), want) {
					t.Errorf("diagnostics do not contain %q:\n%s", want, errOut)
				}
			}
		})
	}
}

func TestRun_MaxDepth(t *testing.T) {
	ctx, _, errOut := testStreams("lambda f(x) = f(x); f(1);")

	r := &Run{Files: []string{"-"}, MaxDepth: 50}

	err := r.Run(ctx)
	if !errors.Is(err, lang.ErrRuntime) {
		t.Fatalf("Run() error = %v, want ErrRuntime", err)
	}

	if !strings.Contains(errOut.String(), lang.ReasonMaxDepth) {
		t.Errorf("diagnostics = %q", errOut)
	}
}
