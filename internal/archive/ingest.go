package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fulfill/internal/config"
	"fulfill/internal/fileutil"
	"fulfill/internal/logging"
	"fulfill/internal/services"
)

const stageName = "ingest"

// Ingestor mirrors and extracts the archives of one main directory.
type Ingestor struct {
	completeDir   string
	deleteSources bool
	logger        *slog.Logger
}

// NewIngestor builds an ingestor from the archive configuration section.
func NewIngestor(cfg config.Archive, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	completeDir := strings.TrimSpace(cfg.CompleteDir)
	if completeDir == "" {
		completeDir = config.Default().Archive.CompleteDir
	}
	return &Ingestor{
		completeDir:   completeDir,
		deleteSources: cfg.DeleteSources,
		logger:        logging.NewComponentLogger(logger, "archive"),
	}
}

// CompleteDir returns the mirror location for the given main directory.
func (i *Ingestor) CompleteDir(main string) string {
	return filepath.Join(main, i.completeDir)
}

// Result summarizes one Ingest call.
type Result struct {
	// Orders lists the order ids whose directory is populated, in id order.
	Orders []string
	// Extracted counts entries written; Skipped counts entries already present.
	Extracted int
	Skipped   int
	// Removed counts source archives deleted after a clean extraction.
	Removed int
}

// Mirror copies every archive in main into the complete directory. An
// archive that already has a same-size copy there is left alone. It returns
// the number of archives copied.
func (i *Ingestor) Mirror(ctx context.Context, main string) (int, error) {
	logger := logging.WithContext(ctx, i.logger)
	names, err := listArchives(main, func(string) bool { return true })
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		return 0, nil
	}
	dest := i.CompleteDir(main)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, services.Wrap(services.ErrConfiguration, stageName, "create mirror", fmt.Sprintf("Failed to create %s", dest), err)
	}

	copied := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		src := filepath.Join(main, name)
		info, err := os.Stat(src)
		if err != nil {
			return copied, services.Wrap(services.ErrNotFound, stageName, "stat archive", name, err)
		}
		target := filepath.Join(dest, name)
		present, err := fileutil.HasSize(target, info.Size())
		if err != nil {
			return copied, services.Wrap(services.ErrTransient, stageName, "inspect mirror", name, err)
		}
		if present {
			continue
		}
		if err := fileutil.CopyFileVerified(src, target); err != nil {
			return copied, services.Wrap(services.ErrTransient, stageName, "mirror archive", fmt.Sprintf("Failed to copy %s into %s", name, dest), err)
		}
		copied++
	}
	logger.Info("archives mirrored",
		logging.String(logging.FieldEventType, "archives_mirrored"),
		logging.Int("archives", len(names)),
		logging.Int("copied", copied),
		logging.String("mirror_dir", dest),
	)
	return copied, nil
}

// Ingest extracts every archive group of main into {main}/{id}. Groups for
// which skip reports true are left untouched. Source archives of a group are
// deleted once all of them extracted cleanly, if configured to do so.
func (i *Ingestor) Ingest(ctx context.Context, main string, skip func(id string) bool) (Result, error) {
	var result Result
	names, err := listArchives(main, func(name string) bool {
		_, ok := GroupKey(name)
		return ok
	})
	if err != nil {
		return result, err
	}
	groups := Group(names)
	for _, id := range SortedKeys(groups) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := logging.WithContext(services.WithOrderID(ctx, id), i.logger)
		if skip != nil && skip(id) {
			logger.Info("order already archived; leaving archives in place",
				logging.String(logging.FieldEventType, "ingest_skipped"),
			)
			continue
		}

		orderDir := filepath.Join(main, id)
		if err := os.MkdirAll(orderDir, 0o755); err != nil {
			return result, services.Wrap(services.ErrConfiguration, stageName, "create order dir", orderDir, err)
		}
		for _, name := range groups[id] {
			extracted, skipped, err := extractArchive(filepath.Join(main, name), orderDir)
			result.Extracted += extracted
			result.Skipped += skipped
			if err != nil {
				return result, err
			}
		}
		result.Orders = append(result.Orders, id)

		removed := 0
		if i.deleteSources {
			for _, name := range groups[id] {
				if err := os.Remove(filepath.Join(main, name)); err != nil && !os.IsNotExist(err) {
					return result, services.Wrap(services.ErrTransient, stageName, "remove archive", name, err)
				}
				removed++
			}
		}
		result.Removed += removed
		logger.Info("order extracted",
			logging.String(logging.FieldEventType, "order_extracted"),
			logging.Int("archives", len(groups[id])),
			logging.Int("sources_removed", removed),
		)
	}
	return result, nil
}

// listArchives returns the names of regular .zip files directly under dir
// accepted by keep, in directory order.
func listArchives(dir string, keep func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, stageName, "list archives", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".zip") || !keep(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// extractArchive unpacks src into dest. Entries whose destination already
// holds a file of the expected size are skipped. Entries that would land
// outside dest reject the whole archive.
func extractArchive(src, dest string) (extracted, skipped int, err error) {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrValidation, stageName, "open archive", filepath.Base(src), err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		rel := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(rel) {
			return extracted, skipped, services.Wrap(
				services.ErrValidation,
				stageName,
				"extract archive",
				fmt.Sprintf("%s contains unsafe entry %q", filepath.Base(src), entry.Name),
				nil,
			)
		}
		target := filepath.Join(dest, rel)
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return extracted, skipped, services.Wrap(services.ErrTransient, stageName, "extract archive", entry.Name, err)
			}
			continue
		}
		present, err := fileutil.HasSize(target, int64(entry.UncompressedSize64))
		if err != nil {
			return extracted, skipped, services.Wrap(services.ErrTransient, stageName, "inspect entry", entry.Name, err)
		}
		if present {
			skipped++
			continue
		}
		if err := extractEntry(entry, target); err != nil {
			return extracted, skipped, services.Wrap(services.ErrTransient, stageName, "extract archive", fmt.Sprintf("%s: %s", filepath.Base(src), entry.Name), err)
		}
		extracted++
	}
	return extracted, skipped, nil
}

func extractEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = fileutil.WriteAtomic(target, rc, 0o644)
	return err
}
