// Package archive discovers the vendor package archives in the main
// directory, mirrors them into a safekeeping folder, and extracts each group
// of archives into its order directory.
//
// Archives are grouped by the eight-character order id that prefixes their
// name ("AB12CD34_part1.zip"). Extraction is idempotent at entry level so a
// crashed or repeated run resumes without rewriting completed files.
package archive
