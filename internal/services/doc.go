// Package services defines shared utilities consumed by the pipeline and its
// outer surfaces.
//
// Key responsibilities:
//   - Context helpers that stamp operation names, input sources, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so the CLI and MCP server
//     can tell caller mistakes from tool failures.
package services
