/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the backend
service, tracking HTTP requests, terminal tool calls, session lifecycle,
and system metrics.

# Features

- HTTP request metrics (latency, throughput, size)
- Tool call metrics (duration, errors)
- Session lifecycle metrics (active, created, destroyed)
- Terminal I/O metrics (bytes in and out, read wait time)
- WebSocket connection metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SetSessionsActive(5)
	metrics.SessionCreated()

	// Time operations
	timer := monitoring.NewTimer(metrics, "read")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
