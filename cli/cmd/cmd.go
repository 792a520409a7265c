package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/blogmath/lang"
	"github.com/ardnew/blogmath/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, if a kong.Context is present.
func kongVar(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

type (
	streamsKey struct{}

	// streams are the standard streams used by a command.
	streams struct {
		in     io.Reader
		out    io.Writer
		errOut io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read "-" from in,
// print results to out, and print diagnostics to errOut. Nil arguments keep
// the process's standard streams.
func WithStreams(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
) context.Context {
	s := streamsFrom(ctx)

	if in != nil {
		s.in = in
	}

	if out != nil {
		s.out = out
	}

	if errOut != nil {
		s.errOut = errOut
	}

	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) streams {
	if s, ok := ctx.Value(streamsKey{}).(streams); ok {
		return s
	}

	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource returns the full text of the named source file, or of the
// command's input stream if name is "-".
func readSource(ctx context.Context, name string) (string, error) {
	logger := log.Default()

	if name == stdinSource {
		return lang.ReadSource(ctx, "<stdin>", streamsFrom(ctx).in, logger)
	}

	file, err := os.Open(name)
	if err != nil {
		return "", ErrOpenSource.
			With(slog.String("source", name)).
			Wrap(err)
	}
	defer file.Close()

	return lang.ReadSource(ctx, name, file, logger)
}

// displayName is the name of a source as shown in diagnostics.
func displayName(name string) string {
	if name == stdinSource {
		return "<stdin>"
	}

	return name
}
