package fulfillment

import (
	"context"
	"path/filepath"

	"fulfill/internal/extraction"
	"fulfill/internal/logging"
	"fulfill/internal/orderdir"
	"fulfill/internal/services"
)

// AddressHeaders is the column order of the address spreadsheet.
var AddressHeaders = []string{
	"Name",
	"Address Line 1",
	"Address Line 2",
	"City",
	"State",
	"ZIP Code",
	"File Name",
}

// AddressRow is the scanned address of one folder's first document.
type AddressRow struct {
	extraction.AddressRecord
	File  string
	Found bool
}

// Row returns the address keyed by AddressHeaders.
func (r AddressRow) Row() map[string]string {
	return map[string]string{
		"Name":           r.Name,
		"Address Line 1": r.AddressLine1,
		"Address Line 2": r.AddressLine2,
		"City":           r.City,
		"State":          r.State,
		"ZIP Code":       r.ZIP,
		"File Name":      r.File,
	}
}

// AddressRows converts rows for a services.Sink.
func AddressRows(rows []AddressRow) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Row())
	}
	return out
}

// ScanAddresses runs the layout-independent address scan over the first
// document of every subdirectory of dir, in name order. Folders without a
// document are skipped; documents that cannot be read or scanned yield a
// row of not-found sentinels.
func (b *Builder) ScanAddresses(ctx context.Context, dir string) ([]AddressRow, error) {
	names, err := orderdir.List(dir, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "addresses", "list folders", dir, err)
	}
	var rows []AddressRow
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		folder := filepath.Join(dir, name)
		contents, err := orderdir.Read(folder)
		if err != nil {
			return rows, services.Wrap(services.ErrNotFound, "addresses", "read folder", folder, err)
		}
		if len(contents.Documents) == 0 {
			continue
		}
		doc := contents.Documents[0]
		row := AddressRow{AddressRecord: extraction.NotFoundAddress(b.notFound), File: doc}

		logger := logging.WithContext(services.WithOrderID(ctx, name), b.logger)
		lines, err := b.ReadLines(ctx, filepath.Join(folder, doc))
		if err != nil {
			logging.WarnWithContext(logger, "document text unreadable; address left as not found",
				"document_unreadable",
				logging.String("document", doc),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "open the PDF and confirm it has a text layer"),
				logging.String(logging.FieldImpact, "address row written with NOT FOUND fields"),
			)
		} else if record, ok := b.fields.ScanAddress(lines); ok {
			row.AddressRecord = record
			row.Found = true
		} else {
			logger.Info("no address block recognized",
				logging.String("document", doc),
				logging.String(logging.FieldEventType, "address_not_found"),
			)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
