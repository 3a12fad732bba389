// Package config provides 12-factor configuration management for the terminal service.
//
// Configuration is loaded from environment variables with sensible defaults,
// optionally overlaid by a YAML file passed via the -config flag.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, CORS origins)
//   - Terminal: Session defaults (dimensions, shell, TERM, scrollback,
//     prompt pattern, session limit)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Attach: WebSocket attach settings
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, ALLOWED_ORIGINS
//   - TERMINAL_SHELL, TERMINAL_TERM, TERMINAL_ROWS, TERMINAL_COLS,
//     TERMINAL_SCROLLBACK, TERMINAL_PROMPT_PATTERN, TERMINAL_MAX_SESSIONS,
//     TERMINAL_READY_TIMEOUT_MS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - ATTACH_ENABLED, ATTACH_MAX_CLIENTS
package config
