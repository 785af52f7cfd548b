// Package config provides environment-based configuration.
//
// Loads from process environment (optionally seeded from a .env file via
// godotenv in main). Validates backend and provider selections and the
// numeric tunables for the scoring engine.
package config
