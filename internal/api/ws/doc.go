// Package ws provides WebSocket attachment to live terminal sessions.
//
// This package lets external clients watch and drive a session in real
// time, alongside whatever the tool surface is doing with it. Each
// connection is a subscriber on the session's output feed; input frames
// go through the same encoder as the send tool.
//
// Features:
//   - Automatic connection upgrade from HTTP
//   - Snapshot frame on connect with the current screen contents
//   - Live output streaming as the child process writes
//   - Named-key and text input with modifier support
//   - Per-session client limit
//
// Message Types (Client → Server):
//   - input: Text or named key to write to the PTY
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - info: Session snapshot sent once on connect
//   - output: Raw terminal output chunk
//   - exit: Child process exited (carries exit_code)
//   - close: Session destroyed
//   - pong: Keep-alive reply
//   - error: Error occurred
//
// Example Usage:
//
//	handler := ws.NewHandler(manager, logger).WithMetrics(metrics)
//	router.GET("/attach/:session_id", handler.HandleAttach)
package ws
