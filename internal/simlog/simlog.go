// Package simlog is the simulation core's package-level diagnostic logger.
// It defaults to log.Printf but may be replaced by SetLogger so that tests
// can capture or silence it. The simulation core never calls the standard
// "log" package directly; all diagnostic output goes through Logf.
package simlog

import "log"

// Logf is the package-level diagnostic logger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger, useful for quiet test runs.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
