// Package logging builds the slog loggers used by every fulfill command.
//
// Console output is one line per record prefixed by the component name; JSON
// output uses short keys (ts, level, msg). WithContext copies the order id,
// stage and run id carried in a context onto a logger, and WarnWithContext
// makes sure every warning says what happened, what it means and what to do.
package logging
