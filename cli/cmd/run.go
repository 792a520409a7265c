package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/blogmath/lang"
	"github.com/ardnew/blogmath/log"
)

// Run executes source files in order against one shared session, so later
// files see the declarations of earlier ones. Without files it starts the
// interactive REPL.
type Run struct {
	Files     []string `arg:"" help:"Source files to execute in order, or '-' for stdin" name:"file" optional:""`
	KeepGoing bool     `       help:"Continue with the next file after a failure"                                    short:"k"`
	MaxDepth  int      `       help:"Maximum depth of nested function calls"            default:"${maxDepth}"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(r.Files) == 0 {
		return (&Repl{MaxDepth: r.MaxDepth}).Run(ctx)
	}

	s := streamsFrom(ctx)

	c := lang.NewContext(
		lang.WithOutput(s.out),
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(r.MaxDepth),
	)

	var failed []string

	for _, name := range r.Files {
		err := r.execute(ctx, c, name)
		if err == nil {
			continue
		}

		if !r.KeepGoing {
			return err
		}

		failed = append(failed, displayName(name))
	}

	if len(failed) > 0 {
		return ErrEvaluate.With(slog.Any("failed", failed))
	}

	return nil
}

// execute runs one source against c. A failure is reported on the error
// stream with the offending line before being returned.
func (r *Run) execute(ctx context.Context, c *lang.Context, name string) error {
	log.DebugContext(ctx, "execute source",
		slog.String("source", displayName(name)),
	)

	src, err := readSource(ctx, name)
	if err == nil {
		_, err = lang.Run(ctx, src, c)
	}

	if err == nil {
		return nil
	}

	s := streamsFrom(ctx)

	fmt.Fprintf(s.errOut, "%s: %s\n",
		displayName(name),
		strings.TrimRight(lang.FormatError(err, src), "\n"),
	)

	return ErrEvaluate.
		With(slog.String("source", displayName(name))).
		Wrap(err)
}
