// Package domain defines the core value types of the brand intelligence
// engine: mentions, sentiment and crisis results, brand health reports, and
// the interfaces of external collaborators (neural inference, result cache).
//
// The package is deliberately dependency-free. Score-to-label mappings live
// here so every scoring path derives labels from the same pure functions.
package domain
