// Package pipeline wires the markup validator, text extractor, caption parser
// and word timing approximator into one service used by the CLI, the batch
// cleaner, and the MCP server.
//
// Every call is stamped with a request ID and logged through the shared
// logging helpers. Caption parses can be served from the SQLite track cache,
// and Speak round-trips markup through an external synthesizer, checking that
// the captions it returns still say what the markup asked for.
package pipeline
