// Package main is the entry point for the terminal engine server.
//
// This application exposes persistent interactive PTY sessions to calling
// agents over a tool-based HTTP API, with optional WebSocket attachment
// for watching sessions live.
//
// The server provides:
//   - REST API for session tools (create, send, read, destroy)
//   - WebSocket attach endpoint for live output streaming
//   - Service provider registry
//   - Prometheus metrics
//   - Rate limiting and CORS
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML config file (-config, file values win)
//   - CLI flags (override everything)
//
// Usage:
//
//	# Production mode
//	./server -port 8090
//
//	# With a config file
//	./server -config config.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, destroying live sessions
package main
