// Package server provides HTTP server setup and initialization.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (recovery, tracing, metrics, CORS, rate limiting)
//   - Session manager initialization
//   - Service provider registration
//   - WebSocket attach endpoint
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Initialize metrics and tracing
//  4. Create the session manager
//  5. Register service providers
//  6. Setup HTTP routes and middleware
//  7. Start HTTP server
//  8. Graceful shutdown on signal, destroying live sessions
//
// Features:
//   - Configuration-driven setup
//   - Graceful shutdown handling
//   - Resource cleanup on exit
//   - Health check and metrics endpoints
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
