// Package cmd implements the blogmath subcommands: run, repl, fmt and init.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]) and the streams they use (see [WithStreams]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
