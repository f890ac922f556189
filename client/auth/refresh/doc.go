// Package refresh collapses concurrent credential refresh demand into a single
// backend call.
//
// Refresh tokens may be single use, so two overlapping refresh calls could
// invalidate each other. The Coordinator guarantees that at most one refresh
// call is outstanding; every caller that needs fresh credentials while it runs
// receives the same outcome.
package refresh
