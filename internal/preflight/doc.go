// Package preflight provides readiness checks for the filesystem paths a
// run depends on.
//
// The pipeline calls RunAll before touching the main directory. A failed
// check stops the run before any archive is extracted or moved, so a
// misconfigured mount never leaves a half-organized batch behind. The CLI
// "fulfill config validate" command prints the same results.
package preflight
