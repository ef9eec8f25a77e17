// Package organizer reshapes the main directory once orders are extracted.
//
// The Splitter gives every additional scanned document of an order its own
// sub-order directory ("{id}.{N}") with a copy of the manifest. The Archiver
// then moves order and sub-order directories, the status documents, and the
// ledger into the day's batch directory ("{month}.{day}").
//
// Moves never merge or overwrite: a destination that already exists fails
// with services.ErrConflict and stops the batch, since silently combining two
// orders' documents cannot be undone.
package organizer
