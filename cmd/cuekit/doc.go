// Package main hosts the cuekit CLI entrypoint and command graph.
//
// Commands read markup or caption tracks from a file argument or stdin, run
// them through the pipeline service, and print text, JSON or YAML. The
// command context owns configuration resolution, logger setup and the track
// cache so subcommands only describe their own flags and output.
//
// New behaviour belongs in the internal packages first; commands here should
// stay thin wrappers around them.
package main
