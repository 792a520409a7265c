package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/blogmath/lang"
	"github.com/ardnew/blogmath/log"
)

// Fmt parses a source without executing it and prints it in the chosen
// format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical blogmath source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// parse reads and parses the named source for the given output format.
func parse(ctx context.Context, name, format string) (*lang.Program, error) {
	src, err := readSource(ctx, name)
	if err != nil {
		return nil, err
	}

	prog, err := lang.ParseCached(ctx, src, log.Default())
	if err != nil {
		return nil, reportParseError(ctx, name, src, err, format)
	}

	return prog, nil
}

func reportParseError(
	ctx context.Context,
	name, src string,
	err error,
	format string,
) error {
	_, _ = streamsFrom(ctx).errOut.Write(
		[]byte(displayName(name) + ": " + lang.FormatError(err, src)),
	)

	return ErrEvaluate.
		With(
			slog.String("source", displayName(name)),
			slog.String("format", format),
		).
		Wrap(err)
}

// Native formats input as canonical blogmath source.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parse(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, streamsFrom(ctx).out)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parse(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, streamsFrom(ctx).out, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parse(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, streamsFrom(ctx).out, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Tokens lists the tokens of a source, one per line.
type Tokens struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, t.Source)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(src)
	if err != nil {
		return reportParseError(ctx, t.Source, src, err, "tokens")
	}

	return lang.FormatTokens(streamsFrom(ctx).out, tokens)
}
