// Package xlsx writes named-field records to spreadsheet workbooks with
// excelize.
package xlsx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fulfill/internal/fileutil"
)

const defaultSheet = "Sheet1"

// Sink implements services.Sink. Each call writes a fresh single-sheet
// workbook: a header row followed by one row per record.
type Sink struct {
	sheet string
}

// NewSink constructs a sink writing to the named sheet.
func NewSink(sheet string) *Sink {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &Sink{sheet: sheet}
}

// Write replaces path with a workbook holding rows under headers. Keys of a
// row that are not headers are ignored; missing keys become empty cells.
func (s *Sink) Write(path string, headers []string, rows []map[string]string) (err error) {
	if len(headers) == 0 {
		return errors.New("xlsx: headers required")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if s.sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, s.sheet); err != nil {
			return fmt.Errorf("xlsx: name sheet: %w", err)
		}
	}

	if err := s.writeRow(f, 1, stringsToCells(headers)); err != nil {
		return err
	}
	for i, row := range rows {
		cells := make([]any, len(headers))
		for col, header := range headers {
			cells[col] = row[header]
		}
		if err := s.writeRow(f, i+2, cells); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("xlsx: create dir: %w", err)
	}
	if _, err := fileutil.WriteAtomic(path, buf, 0o644); err != nil {
		return fmt.Errorf("xlsx: write %s: %w", path, err)
	}
	return nil
}

func (s *Sink) writeRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	if err := f.SetSheetRow(s.sheet, cell, &cells); err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	return nil
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// ReadRows returns the rows of sheet in the workbook at path, keyed by the
// header row. Trailing empty cells are returned as empty strings.
func ReadRows(path, sheet string) ([]string, []map[string]string, error) {
	if sheet == "" {
		sheet = defaultSheet
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer f.Close()

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx: read %s: %w", path, err)
	}
	if len(grid) == 0 {
		return nil, nil, nil
	}
	headers := grid[0]
	rows := make([]map[string]string, 0, len(grid)-1)
	for _, line := range grid[1:] {
		row := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(line) {
				row[header] = line[col]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
