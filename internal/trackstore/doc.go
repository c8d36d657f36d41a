// Package trackstore caches parsed caption tracks in SQLite.
//
// Entries are keyed by a SHA-256 digest of the caption format, the pause
// settings that shaped cue text, and the raw track content, so a change to
// any of them misses the cache. Schema creation is serialized across
// processes with a file lock next to the database, and writes retry while
// SQLite reports the database busy.
package trackstore
