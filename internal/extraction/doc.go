// Package extraction turns the text of a scanned shipping label into
// recipient fields.
//
// Extract relies on a positional contract: the recipient name, street line,
// and city/state line sit at fixed zero-based line indices of the first page
// (2, 3, and 4 by default). Any change to the upstream document layout breaks
// it silently, which is why the indices live in configuration and why
// ScanAddress exists as a layout-independent fallback that anchors on the
// "City, ST 12345" line instead.
package extraction
