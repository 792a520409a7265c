package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/ardnew/blogmath/lang"
)

// lineReader reads one input line per prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// scanReader reads lines from a non-terminal input.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (*scanReader) AppendHistory(string) {}

func (*scanReader) Close() error { return nil }

// newLineReader returns a liner editor when reading the process's standard
// input, or a plain line scanner otherwise.
func newLineReader(in io.Reader, history *History, s *session) lineReader {
	if f, ok := in.(*os.File); !ok || f != os.Stdin {
		return &scanReader{scanner: bufio.NewScanner(in)}
	}

	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return completions(line, pos, s.candidates())
	})

	if lines := history.Lines(); len(lines) > 0 {
		_, _ = state.ReadHistory(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	}

	return state
}

// runLine runs the session with a plain line editor. Prompts are written
// only when input is interactive.
func runLine(ctx context.Context, cfg config, history *History) error {
	s := &session{
		c: lang.NewContext(
			lang.WithOutput(cfg.out),
			lang.WithLogger(cfg.logger),
			lang.WithMaxDepth(cfg.maxDepth),
		),
		logger: cfg.logger,
	}

	r := newLineReader(cfg.in, history, s)
	defer r.Close()

	_, interactive := r.(*liner.State)
	if interactive {
		fmt.Fprintln(cfg.out, banner())
	}

	for ctx.Err() == nil {
		line, err := r.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			if interactive {
				fmt.Fprintln(cfg.out)
			}

			return nil

		case err != nil:
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		r.AppendHistory(input)

		if err := history.Append(input); err != nil {
			cfg.logger.WarnContext(ctx, "could not save history",
				slog.Any("error", err),
			)
		}

		if quit := lineCommand(ctx, cfg, s, input); quit {
			return nil
		}
	}

	return context.Cause(ctx)
}

// lineCommand executes one line of input and reports whether the session
// should end.
func lineCommand(ctx context.Context, cfg config, s *session, input string) bool {
	switch input {
	case cmdQuit, cmdExit:
		return true

	case cmdHelp:
		fmt.Fprintln(cfg.out, helpMessage())

	case cmdVars:
		fmt.Fprintln(cfg.out, s.variables())

	case cmdFuncs:
		fmt.Fprintln(cfg.out, s.functions())

	case cmdClear:
		fmt.Fprint(cfg.out, "\033[H\033[2J")

	case cmdEdit:
		cmd := &editCommand{
			ctxFunc: func() context.Context { return ctx },
			logger:  cfg.logger,
			stdin:   cfg.in,
			stdout:  cfg.out,
			stderr:  os.Stderr,
		}

		if err := cmd.Run(); err != nil {
			fmt.Fprintln(cfg.out, "error:", err)
		} else if cmd.source != "" {
			printEntries(cfg.out, s.eval(ctx, cmd.source))
		}

	default:
		printEntries(cfg.out, s.eval(ctx, input))
	}

	return false
}

func printEntries(w io.Writer, entries []entry) {
	for _, e := range entries {
		fmt.Fprintln(w, strings.TrimRight(e.text, "\n"))
	}
}
