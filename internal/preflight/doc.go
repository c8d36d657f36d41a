// Package preflight provides readiness checks for the directories, tools and
// stores cuekit depends on.
//
// The CLI "cuekit doctor" command runs RunAll and prints one line per check.
// Each check is gated by its config setting; unconfigured features are
// skipped rather than reported as failures.
package preflight
