// Package services defines shared utilities consumed by the pipeline stages
// and the adapters for external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp order identifiers, stage names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent journal statuses (failed vs review).
//   - The collaborator contracts (folder picker, document text extraction,
//     tabular export sink). Concrete adapters live in the subpackages.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
