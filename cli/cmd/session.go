package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/blogmath/cli/cmd/repl"
	"github.com/ardnew/blogmath/log"
)

// Repl starts an interactive session. Each input line is evaluated against
// one shared session and the values it yields are printed.
type Repl struct {
	Line      bool `help:"Use a plain line editor instead of the full-screen interface"`
	NoHistory bool `help:"Do not load or save input history"`
	MaxDepth  int  `help:"Maximum depth of nested function calls" default:"${maxDepth}"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := streamsFrom(ctx)

	opts := []repl.Option{
		repl.WithStreams(s.in, s.out),
		repl.WithLogger(log.Default()),
		repl.WithLineMode(r.Line || !interactive(s.in)),
		repl.WithMaxDepth(r.MaxDepth),
	}

	if dir, ok := kongVar(ctx, CacheIdentifier); ok && !r.NoHistory {
		opts = append(opts, repl.WithHistory(filepath.Join(dir, repl.HistoryFile)))
	}

	return repl.Run(ctx, opts...)
}

// interactive reports whether r is a terminal.
func interactive(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
