// Package pipeline runs one fulfillment pass over a main directory.
//
// A run takes an exclusive lock on the main directory, opens a run in the
// journal, and then executes the stages in a fixed order:
//
//	mirror    copy source archives into the complete mirror
//	ingest    extract archive groups into order directories
//	status    write a status document per received order
//	ledger    append status rows to the main ledger
//	split     give every extra document its own sub-order
//	archive   move orders into today's batch directory
//	artifacts move status documents and the ledger into the batch
//	records   extract fields from every document in the batch
//	export    write the batch spreadsheet
//
// Filesystem and conflict errors abort the run and are recorded on the run
// and on every order it touched. Unreadable documents do not abort; their
// records carry the not-found sentinel and their orders are flagged for
// review. Every stage is safe to repeat, so rerunning after a crash resumes
// where the previous run stopped.
package pipeline
