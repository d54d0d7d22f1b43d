// Package progress keeps aggregated scheduler counters for a single run.
// The tracker travels in the context so every component that receives it can
// apply deltas without a global registry.
package progress
