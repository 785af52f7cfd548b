// Package analysis implements the multi-signal scoring engine.
//
// Raw text flows through feature extraction into the lexicon scorer and the
// optional neural adapter; the ensemble combiner merges both into one
// sentiment result. The crisis detector scores keyword severity, negativity
// and urgency patterns per mention and tracks a per-brand rolling detection
// window to compute velocity. The aggregator folds batches of per-mention
// results into a time-windowed brand health report.
//
// Scoring paths never return errors: bad input and internal failures are
// absorbed into default-valued results at the component boundary.
package analysis
