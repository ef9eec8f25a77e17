package services

import "context"

// Picker lets an operator choose a single directory. ok is false when the
// operator cancelled without choosing.
type Picker interface {
	PickFolder(ctx context.Context, prompt string) (path string, ok bool, err error)
}

// TextExtractor returns the text of a scanned document as lines per page, in
// page order. Corrupt or unreadable documents return an error.
type TextExtractor interface {
	ExtractPages(ctx context.Context, path string) ([][]string, error)
}

// Sink persists named-field records as a spreadsheet. Each row is indexed by
// header name; missing keys are written as empty cells.
type Sink interface {
	Write(path string, headers []string, rows []map[string]string) error
}
