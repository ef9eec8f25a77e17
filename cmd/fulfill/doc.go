// Package main hosts the fulfill CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the fulfillment pipeline against a main
// directory, exports spreadsheets for ad-hoc folders, turns completed-order
// archives into status feedback, and reads back the ledger and order journal.
// It centralizes configuration resolution, folder selection, and logging
// setup so subcommands only translate flags into calls on internal packages.
package main
