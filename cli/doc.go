// Package cli contains the command line interface for blogmath.
//
// # Usage
//
//	blogmath [flags] [run] [file ...]   # execute files in order
//	blogmath repl                       # interactive session
//	blogmath fmt [native|json|yaml|tokens] [file]
//	blogmath init [--force]             # write current flags to config.yaml
//
// Without arguments, blogmath starts the REPL. A file named "-" is read from
// standard input.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, e.g. ~/.config/blogmath/config.yaml. Keys are
// flag names; see the init command.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Unquoted text or indented JSON, colorized on terminals
//
// Logs go to standard error. At trace level the interpreter logs every
// scope change and parse cache lookup.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/blogmath/pprof)
package cli
