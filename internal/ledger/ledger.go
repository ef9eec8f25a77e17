// Package ledger maintains the tab-delimited status ledger
// (daily_status.tsv): one row per status document, no header, append-only.
//
// Append never rewrites existing content. A row is written only when no
// fully identical row exists in the file or earlier in the same call, which
// makes repeated runs over the same batch idempotent.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fulfill/internal/fulfillment"
	"fulfill/internal/services"
)

// Columns is the number of fields in every ledger row.
const Columns = 10

// Ledger is a handle on one ledger file.
type Ledger struct {
	path string
}

// Open returns a handle for path. The file is created on first Append.
func Open(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Rows parses the whole file. A missing file reads as empty.
func (l *Ledger) Rows() ([][]string, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "ledger", "open", l.path, err)
	}
	defer file.Close()
	return parse(file)
}

func parse(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "ledger", "parse", "", err)
		}
		rows = append(rows, normalize(record))
	}
}

// normalize pads or trims a row to Columns fields.
func normalize(row []string) []string {
	out := make([]string, Columns)
	copy(out, row)
	return out
}

// Append writes the rows not already present and returns how many were added.
func (l *Ledger) Append(rows [][]string) (int, error) {
	existing, err := l.Rows()
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing)+len(rows))
	for _, row := range existing {
		seen[rowKey(row)] = struct{}{}
	}

	var fresh [][]string
	for _, row := range rows {
		row = normalize(row)
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, row)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "ledger", "create dir", filepath.Dir(l.path), err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "ledger", "open for append", l.path, err)
	}
	writer := csv.NewWriter(file)
	writer.Comma = '\t'
	if err := writer.WriteAll(fresh); err != nil {
		_ = file.Close()
		return 0, services.Wrap(services.ErrTransient, "ledger", "append", l.path, err)
	}
	if err := file.Close(); err != nil {
		return 0, services.Wrap(services.ErrTransient, "ledger", "close", l.path, err)
	}
	return len(fresh), nil
}

func rowKey(row []string) string {
	return strings.Join(row, "\x00")
}

// RowsFromStatusDir reads every status document in xmlDir, in file name
// order, and returns their ledger rows. A missing directory yields no rows.
func RowsFromStatusDir(xmlDir string) ([][]string, error) {
	entries, err := os.ReadDir(xmlDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "ledger", "list status documents", xmlDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		doc, err := fulfillment.ReadStatus(filepath.Join(xmlDir, name))
		if err != nil {
			return nil, fmt.Errorf("status document %s: %w", name, err)
		}
		rows = append(rows, doc.Row())
	}
	return rows, nil
}

// RowsFromDocuments converts status documents to ledger rows.
func RowsFromDocuments(docs []fulfillment.StatusDocument) [][]string {
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc.Row())
	}
	return rows
}
