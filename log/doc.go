// Package log provides a leveled structured logger based on [log/slog].
//
// A [Logger] is an immutable value configured at creation time with
// functional options. It adds [LevelTrace] below [LevelDebug] and two
// "pretty" handlers meant for people rather than machines.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Warn("file skipped", slog.String("path", path))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options changed. The package-level
// functions ([Trace], [Debug], [Info], [Warn], [Error] and their Context
// variants) write through a default logger on standard error, reconfigured
// with [Config].
//
// The zero Logger discards everything, so components can hold one without
// checking whether logging was configured.
//
// # Pretty Output
//
// With [WithPretty], text records are written without quoting and JSON
// records are indented. Values implementing [slog.LogValuer] are resolved
// and groups are flattened to dotted keys. Colors are used only when the
// output is a terminal.
//
// # Time Formatting
//
// [WithTimeLayout] accepts the name of a layout from the [time] package
// ("RFC3339", "Kitchen", "DateTime", ...), a short alias ("ms", "us", "ns"),
// or a custom layout. "none" or an empty layout removes timestamps.
package log
