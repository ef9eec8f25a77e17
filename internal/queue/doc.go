// Package queue persists the order journal in SQLite.
//
// The journal records every pipeline run (keyed by a UUID) and the last known
// status of each order directory within its batch. The filesystem stays the
// source of truth for order contents; the journal answers "what happened
// when" for operators and lets a rerun skip orders that a previous run has
// already archived into today's batch.
//
// Schema changes bump the version in schema.go; users delete the journal to
// adopt the new schema.
package queue
