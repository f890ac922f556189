// Package cli implements the detectctl command line, a terminal counterpart of
// the detection dashboard. Sessions survive between invocations through the
// selected credential persistence.
package cli
