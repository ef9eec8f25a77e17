package fulfillment

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fulfill/internal/logging"
	"fulfill/internal/manifest"
	"fulfill/internal/services"
)

const (
	feedbackMarker  = "done"
	unknownFeedback = "Unknown"
)

// FeedbackArchives lists the completed-order archives ("*done*.zip") in dir.
func FeedbackArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "feedback", "list archives", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasSuffix(name, ".zip") && strings.Contains(name, feedbackMarker) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// EmitFeedback reads every manifest inside the completed-order archives of
// dir and writes one status document per manifest under {dir}/XML. The
// vendor comes from the manifest's vendorIndicator and the order id from the
// first orderId anywhere in it; missing values read as "Unknown". Documents
// without an order id are numbered so they do not replace each other.
func (b *Builder) EmitFeedback(ctx context.Context, dir string, now time.Time) ([]StatusDocument, error) {
	names, err := FeedbackArchives(dir)
	if err != nil {
		return nil, err
	}
	var docs []StatusDocument
	unknown := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return docs, err
		}
		found, err := b.feedbackFromArchive(filepath.Join(dir, name), now)
		if err != nil {
			return docs, err
		}
		for _, doc := range found {
			key := doc.OrderID
			if key == unknownFeedback {
				unknown++
				if unknown > 1 {
					key = fmt.Sprintf("%s_%d", unknownFeedback, unknown)
				}
			}
			if _, err := writeStatusAt(StatusPath(dir, key), doc); err != nil {
				return docs, err
			}
		}
		b.logger.Info("feedback archive processed",
			logging.String("archive", name),
			logging.Int("status_documents", len(found)),
			logging.String(logging.FieldEventType, "feedback_archive"),
		)
		docs = append(docs, found...)
	}
	return docs, nil
}

func (b *Builder) feedbackFromArchive(path string, now time.Time) ([]StatusDocument, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "feedback", "open archive", filepath.Base(path), err)
	}
	defer reader.Close()

	var docs []StatusDocument
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(entry.Name), ".xml") {
			continue
		}
		meta, err := b.parseEntry(entry)
		if err != nil {
			return docs, services.Wrap(services.ErrValidation, "feedback", "read manifest", entry.Name, err)
		}
		orderID := meta.AnyOrderID
		if orderID == "" {
			orderID = unknownFeedback
		}
		vendorID := meta.VendorIndicator
		if vendorID == "" {
			vendorID = unknownFeedback
		}
		docs = append(docs, StatusFor(orderID, now, b.vendor, b.days, vendorID))
	}
	return docs, nil
}

func (b *Builder) parseEntry(entry *zip.File) (manifest.Result, error) {
	rc, err := entry.Open()
	if err != nil {
		return manifest.Result{}, err
	}
	defer rc.Close()
	return b.manifest.Parse(rc, "")
}
