// Package server provides the HTTP layer: Echo routing, analyze and
// brand health handlers, health probes for orchestration, and the
// Prometheus metrics endpoint.
package server
