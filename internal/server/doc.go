// Package server provides the MCP server context, health probes, and the
// dedicated Prometheus metrics server for the bookslot application.
//
// # Key Components
//
// ServerContext manages Google Calendar clients with lazy initialization and
// caching. It supports multiple accounts keyed by name, creating a client on
// first use when a stored token is available.
//
// HealthChecker exposes /healthz, /readyz and /healthz/detailed endpoints
// suitable for Kubernetes liveness and readiness probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from the MCP transport.
package server
