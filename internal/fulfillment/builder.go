package fulfillment

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"fulfill/internal/config"
	"fulfill/internal/extraction"
	"fulfill/internal/logging"
	"fulfill/internal/manifest"
	"fulfill/internal/orderdir"
	"fulfill/internal/services"
)

const (
	staticIsKit = "1"
	staticQty   = "1"
)

// Builder produces status documents and export records for order directories.
type Builder struct {
	text     services.TextExtractor
	fields   *extraction.Extractor
	manifest *manifest.Reader
	vendor   config.Vendor
	days     int
	notFound string
	reserved orderdir.Reserved
	logger   *slog.Logger
}

// NewBuilder wires a builder from configuration and a text extractor.
func NewBuilder(cfg *config.Config, text services.TextExtractor, logger *slog.Logger) *Builder {
	return &Builder{
		text:     text,
		fields:   extraction.NewExtractor(extraction.RulesFromConfig(cfg.Extraction)),
		manifest: manifest.NewReader(cfg.Manifest),
		vendor:   cfg.Vendor,
		days:     cfg.Schedule.BusinessDays,
		notFound: cfg.Extraction.NotFound,
		reserved: orderdir.NewReserved(cfg.ReservedDirs()...),
		logger:   logging.NewComponentLogger(logger, "fulfillment"),
	}
}

// Extractor exposes the field extractor the builder uses.
func (b *Builder) Extractor() *extraction.Extractor {
	return b.fields
}

// ReadLines returns the normalized text lines of a document.
func (b *Builder) ReadLines(ctx context.Context, path string) ([]string, error) {
	pages, err := b.text.ExtractPages(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "extract", "read text", filepath.Base(path), err)
	}
	return extraction.Flatten(pages), nil
}

// BuildRecords walks the order directories directly under dir, or dir
// itself when it has no subdirectories, and returns one record per
// document. Directories without a document or manifest are skipped, as are
// the reserved mirror and status folders.
func (b *Builder) BuildRecords(ctx context.Context, dir string, now time.Time) (Batch, error) {
	subdirs, err := orderdir.List(dir, func(name string) bool { return !b.reserved.Contains(name) })
	if err != nil {
		return Batch{}, services.Wrap(services.ErrNotFound, "build", "list orders", dir, err)
	}
	targets := make([]string, 0, len(subdirs))
	for _, name := range subdirs {
		targets = append(targets, filepath.Join(dir, name))
	}
	if len(targets) == 0 {
		targets = append(targets, dir)
	}

	received := now.Format(OrderReceivedLayout)
	var batch Batch
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		batch, err = b.buildOrder(ctx, batch, target, received)
		if err != nil {
			return batch, err
		}
	}
	return batch, nil
}

// buildOrder folds the documents of one directory into acc.
func (b *Builder) buildOrder(ctx context.Context, acc Batch, dir, received string) (Batch, error) {
	contents, err := orderdir.Read(dir)
	if err != nil {
		return acc, services.Wrap(services.ErrNotFound, "build", "read order", dir, err)
	}
	if !contents.Complete() {
		return acc, nil
	}
	manifestPath := filepath.Join(dir, contents.Manifests[0])
	logger := logging.WithContext(services.WithOrderID(ctx, filepath.Base(dir)), b.logger)

	for _, name := range contents.Documents {
		docPath := filepath.Join(dir, name)
		record, result := b.buildRecord(ctx, docPath, manifestPath, received)
		if result.Err != nil {
			logging.WarnWithContext(logger, "document text unreadable; using placeholder fields",
				"document_unreadable",
				logging.String("document", name),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "open the PDF and confirm it has a text layer"),
				logging.String(logging.FieldImpact, "record exported with NOT FOUND recipient fields"),
			)
		}
		acc.Records = append(acc.Records, record)
		acc.Documents = append(acc.Documents, result)
	}
	acc.Orders++
	logger.Debug("order records built", logging.Int("documents", len(contents.Documents)))
	return acc, nil
}

func (b *Builder) buildRecord(ctx context.Context, docPath, manifestPath, received string) (Record, DocumentResult) {
	result := DocumentResult{Path: docPath}

	var fields extraction.Fields
	lines, err := b.ReadLines(ctx, docPath)
	if err != nil {
		result.Err = err
		fields = extraction.NotFoundFields(b.notFound)
	} else {
		fields = b.fields.Extract(lines)
	}

	meta, err := b.manifest.Read(manifestPath, fields.Hint())
	if err != nil {
		b.logger.Warn("manifest unreadable; recipient fields left empty",
			logging.String("manifest", manifestPath),
			logging.Error(err),
			logging.String(logging.FieldEventType, "manifest_unreadable"),
		)
		meta = manifest.Result{OrderID: manifest.NoOrderID}
	}
	if result.Err != nil {
		// Without label text there is no address to correlate, so no
		// recipient is attributed to the document.
		meta = manifest.Result{OrderID: meta.OrderID, VendorIndicator: meta.VendorIndicator}
	}

	return Record{
		OrderID:         meta.OrderID,
		InvoiceNumber:   "",
		SKU:             meta.SKU,
		ItemDescription: meta.Description,
		Vendor:          b.vendor.ExportVendor,
		OrderReceived:   received,
		IsKit:           staticIsKit,
		Qty:             staticQty,
		Region:          meta.Region,
		Fields:          fields,
		Source:          docPath,
	}, result
}

// EmitStatusDocuments writes a status document under {main}/XML for every
// order directory in main that holds a document and a manifest. It returns
// the documents written in order id order.
func (b *Builder) EmitStatusDocuments(ctx context.Context, main string, now time.Time) ([]StatusDocument, error) {
	names, err := orderdir.List(main, b.reserved.Order)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "status", "list orders", main, err)
	}
	var docs []StatusDocument
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		dir := filepath.Join(main, name)
		contents, err := orderdir.Read(dir)
		if err != nil {
			return docs, services.Wrap(services.ErrNotFound, "status", "read order", dir, err)
		}
		if !contents.Complete() {
			continue
		}
		vendorID := ""
		if b.vendor.UseManifestVendor {
			if meta, err := b.manifest.Read(filepath.Join(dir, contents.Manifests[0]), ""); err == nil {
				vendorID = meta.VendorIndicator
			}
		}
		doc := StatusFor(name, now, b.vendor, b.days, vendorID)
		path, err := WriteStatus(main, doc)
		if err != nil {
			return docs, err
		}
		logging.WithContext(services.WithOrderID(ctx, name), b.logger).Debug("status document written",
			logging.String("path", path),
			logging.String(logging.FieldEventType, "status_written"),
		)
		docs = append(docs, doc)
	}
	return docs, nil
}
