// Package mcpserver exposes the cuekit pipeline as Model Context Protocol
// tools over stdio.
//
// Tools return JSON text content. Domain failures such as rejected markup are
// reported as tool errors (IsError) so clients can show them to the model;
// only protocol problems surface as Go errors.
package mcpserver
