// Package terminal exposes persistent PTY sessions as a tool service.
//
// Sessions outlive individual tool calls: a caller creates a session once,
// then interleaves send and read operations against it while the child
// process keeps running. Output accumulates server-side between calls.
//
// Features:
//   - PTY-backed sessions for real terminal semantics
//   - Multiple concurrent sessions with a configurable bound
//   - Three read views: new output, rendered screen, scrollback pages
//   - Plain (stripped) and raw (escape-preserving) output formats
//   - Wait conditions: timeout, idle window, shell prompt detection
//   - Special-key encoding with ctrl/alt/shift modifiers
//   - Bracketed paste for multi-line text
//   - Environment deny-list filtering for spawned children
//
// Architecture:
//   - The session manager (internal/session) owns process lifecycles
//   - Each session pairs a PTY handle with a terminal emulator
//   - A background reader drains the PTY; tool calls apply its queue
//   - This provider translates tool params and maps errors to stable codes
//
// Example Usage:
//
//	// Create a session running the default shell, wait for its prompt
//	terminal.create_session()
//	// → {session_id: "sess_...", pid: 1234, program: "/bin/bash", ...}
//
//	// Run a command and collect output up to the next prompt
//	terminal.send(session_id: "sess_...", text: "ls -la\n",
//	              read: {wait_for_prompt: true, timeout_ms: 5000})
//
//	// Interrupt a running command
//	terminal.send(session_id: "sess_...", key: "c", ctrl: true)
//
//	// Page through history
//	terminal.read(session_id: "sess_...", view: "scrollback", limit: 200)
//
//	// Tear down
//	terminal.destroy_session(session_id: "sess_...")
//
// Tools:
//   - terminal.create_session: Spawn a process on a fresh PTY
//   - terminal.send: Send text or special keys to a session
//   - terminal.read: Read output (new, screen, or scrollback view)
//   - terminal.get_info: Describe a session's process and screen state
//   - terminal.list_sessions: List all registered sessions
//   - terminal.destroy_session: Terminate a session and its process
//   - terminal.cleanup_exited: Remove sessions whose process exited
package terminal
