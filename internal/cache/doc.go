// Package cache provides ResultCache implementations for the analysis
// engine: an in-process TTL map for single-instance deployments and a
// Redis-backed cache for shared deployments.
package cache
