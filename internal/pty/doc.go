// Package pty owns the operating-system side of a terminal session: it
// spawns a child process attached to a freshly allocated pseudo-terminal,
// filters the environment it inherits, and exposes the master descriptor
// for reading and writing.
//
// A Handle is created once per session and never resized. Exit status is
// observed by a single Wait owner goroutine; IsAlive, ExitCode, and Done
// never race it.
package pty
