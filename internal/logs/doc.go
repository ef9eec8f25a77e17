// Package logs reads back the per-invocation log files written by the CLI.
//
// Latest finds the newest fulfill-*.log file, Tail returns its last lines
// with bounded memory, and Follow polls the file for appended lines until the
// context is cancelled.
package logs
