// Package tui implements the terminal interface for watching a run.
//
// The view is a single table of plan steps with live status, driven by
// orchestrator events forwarded as EventMsg values. It is intentionally
// read-only; the only interaction is quitting.
package tui
