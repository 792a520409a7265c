package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/blogmath/lang"
	"github.com/ardnew/blogmath/log"
)

// Commands recognized on a line by themselves. None of them is a valid
// statement, so they never hide source input.
const (
	cmdHelp  = "help"
	cmdVars  = "vars"
	cmdFuncs = "funcs"
	cmdEdit  = "edit"
	cmdClear = "clear"
	cmdQuit  = "quit"
	cmdExit  = "exit"
)

var commands = []string{cmdHelp, cmdVars, cmdFuncs, cmdEdit, cmdClear, cmdQuit, cmdExit}

func isCommand(input string) bool {
	return slices.Contains(commands, strings.TrimSpace(input))
}

func helpMessage() string {
	return `
Commands:

  help     Print this cruft
  vars     List visible variables
  funcs    List declared functions
  edit     Write a program in external $EDITOR
  clear    Clear screen
  quit     Exit REPL (also: exit)

Usage:
  Type statements terminated by ';' (a missing final ';' is added)
  Values of function calls are printed, e.g. sq(4);
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// entryKind classifies a line of session output.
type entryKind int

const (
	kindOutput entryKind = iota // written by print
	kindValue                   // yielded by a statement
	kindError
)

type entry struct {
	text string
	kind entryKind
}

// session evaluates input lines against one [lang.Context].
type session struct {
	c       *lang.Context
	capture *bytes.Buffer // print output, when not written straight through
	logger  log.Logger
}

// eval runs input and returns what it produced, in order. Evaluation stops
// at the first error, which is reported with the offending source line.
func (s *session) eval(ctx context.Context, input string) []entry {
	source := strings.TrimSpace(input)
	if source == "" {
		return nil
	}

	seq, err := lang.Evaluate(ctx, source, s.c)
	if err != nil && incomplete(err) && !strings.HasSuffix(source, ";") {
		// A newline ends a trailing comment before the added terminator.
		if retry, rerr := lang.Evaluate(ctx, source+"\n;", s.c); rerr == nil {
			seq, err = retry, nil
		}
	}

	s.logger.TraceContext(ctx, "repl eval",
		slog.String("input", source),
		slog.Bool("parsed", err == nil),
	)

	if err != nil {
		return []entry{{text: lang.FormatError(err, source), kind: kindError}}
	}

	var out []entry

	for v, err := range seq {
		out = s.flush(out)

		if err != nil {
			out = append(out, entry{text: lang.FormatError(err, source), kind: kindError})

			break
		}

		out = append(out, entry{text: v.String(), kind: kindValue})
	}

	return s.flush(out)
}

// flush moves captured print output into out.
func (s *session) flush(out []entry) []entry {
	if s.capture == nil || s.capture.Len() == 0 {
		return out
	}

	text := strings.TrimSuffix(s.capture.String(), "\n")
	s.capture.Reset()

	return append(out, entry{text: text, kind: kindOutput})
}

// incomplete reports whether err is a syntax error at the end of input.
func incomplete(err error) bool {
	var se *lang.SyntaxError

	return errors.As(err, &se) && se.Pos == nil
}

// variables lists the visible variables, one per line.
func (s *session) variables() string {
	vars := s.c.Variables()
	if len(vars) == 0 {
		return "  (no variables)"
	}

	lines := make([]string, len(vars))
	for i, b := range vars {
		lines[i] = fmt.Sprintf("  %s = %s", b.Name, lang.FormatNumber(b.Value))
	}

	return strings.Join(lines, "\n")
}

// functions lists the declared functions, one per line.
func (s *session) functions() string {
	funcs := s.c.Functions()

	lines := make([]string, len(funcs))
	for i, f := range funcs {
		lines[i] = "  " + f.Signature
		if f.Builtin {
			lines[i] += " (builtin)"
		}
	}

	return strings.Join(lines, "\n")
}

// candidates returns every name worth completing: declared variables and
// functions, keywords, and commands.
func (s *session) candidates() []string {
	names := s.c.Names()
	names = append(names, lang.Keywords()...)
	names = append(names, commands...)

	slices.Sort(names)

	return slices.Compact(names)
}
