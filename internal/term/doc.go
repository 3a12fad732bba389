/*
Package term implements a VT100/ANSI terminal emulator: a byte-level
escape-sequence parser, a fixed-size character grid with an alternate
buffer, a scrollback store for lines that scroll off the top, an output
tracker for incremental reads, and a shell prompt detector.

# Parsing

Parser decodes the raw PTY stream into tagged events (print, execute,
CSI, ESC, OSC). State applies those events to the screen. Unknown or
malformed sequences are consumed and ignored; invalid UTF-8 decodes to
the replacement character. The emulator never fails on adversarial
input.

# Views

Read output is served from three views: "new" drains the tracker
(bytes since the last read), "screen" renders the current grid, and
"scrollback" pages through evicted lines. Each view renders in plain
form (escape sequences stripped) or raw form (attributes re-emitted as
SGR sequences).

# Concurrency

Nothing in this package is safe for concurrent use. A session owns one
State and serializes access with its own lock.
*/
package term
