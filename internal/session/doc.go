// Package session ties a PTY process to its terminal state and registers
// the pair under a generated id. A Session owns one child process, one
// background reader, and one emulator; the Manager bounds how many exist
// at once and is the only way to create or destroy them.
//
// Output flows one way: the reader goroutine ships PTY bytes over a
// channel, and every session operation drains that channel into the
// emulator before acting. Callers never observe half-applied output.
//
// Read blocks only when asked to: a timeout, an idle window, or a prompt
// wait turns it into a poll loop over fresh output. Expiry of a wait is
// reported in the result flags, not as an error.
package session
