package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fulfill/internal/config"
	"fulfill/internal/fileutil"
	"fulfill/internal/logging"
	"fulfill/internal/orderdir"
	"fulfill/internal/services"
)

// Splitter separates multi-document orders into sub-orders.
type Splitter struct {
	reserved orderdir.Reserved
	logger   *slog.Logger
}

// NewSplitter constructs a splitter that ignores the reserved directories of
// cfg. A nil cfg uses the defaults.
func NewSplitter(cfg *config.Config, logger *slog.Logger) *Splitter {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &Splitter{
		reserved: orderdir.NewReserved(cfg.ReservedDirs()...),
		logger:   logging.NewComponentLogger(logger, "splitter"),
	}
}

// SplitResult reports what Split changed.
type SplitResult struct {
	// Created lists the sub-order directories that received a document.
	Created []string
	// Parents lists the orders that were split.
	Parents []string
}

// Split walks the bare order directories of main. An order with more than
// one document and at least one manifest keeps its first document; the
// document at 1-based position i >= 2 moves into "{id}.{i}" next to a copy of
// every manifest. Orders without a manifest are left alone.
func (s *Splitter) Split(ctx context.Context, main string) (SplitResult, error) {
	var result SplitResult
	names, err := orderdir.List(main, s.reserved.Order)
	if err != nil {
		return result, services.Wrap(services.ErrNotFound, "split", "list orders", main, err)
	}
	for _, id := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		created, err := s.splitOrder(services.WithOrderID(ctx, id), main, id)
		if err != nil {
			return result, err
		}
		if len(created) > 0 {
			result.Parents = append(result.Parents, id)
			result.Created = append(result.Created, created...)
		}
	}
	return result, nil
}

func (s *Splitter) splitOrder(ctx context.Context, main, id string) ([]string, error) {
	logger := logging.WithContext(ctx, s.logger)
	dir := filepath.Join(main, id)
	contents, err := orderdir.Read(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "split", "read order", dir, err)
	}
	if len(contents.Manifests) == 0 || len(contents.Documents) < 2 {
		return nil, nil
	}

	var created []string
	index := 2
	for _, doc := range contents.Documents[1:] {
		target, err := nextTarget(main, id, doc, &index)
		if err != nil {
			return created, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return created, services.Wrap(services.ErrConfiguration, "split", "create sub-order", target, err)
		}
		for _, manifestName := range contents.Manifests {
			if err := fileutil.CopyFile(filepath.Join(dir, manifestName), filepath.Join(target, manifestName)); err != nil {
				return created, services.Wrap(services.ErrTransient, "split", "copy manifest", manifestName, err)
			}
		}
		if err := moveDocument(filepath.Join(dir, doc), filepath.Join(target, doc)); err != nil {
			return created, err
		}
		created = append(created, filepath.Base(target))
		logger.Info("document split into sub-order",
			logging.String("document", doc),
			logging.String("sub_order", filepath.Base(target)),
			logging.String(logging.FieldEventType, "order_split"),
		)
	}
	return created, nil
}

// nextTarget picks the sub-order directory for doc, starting at *index. An
// existing sub-order that already holds a different document belongs to an
// earlier, interrupted split and is skipped so documents never share a
// directory.
func nextTarget(main, id, doc string, index *int) (string, error) {
	for ; ; *index++ {
		target := filepath.Join(main, orderdir.SubOrderName(id, *index))
		contents, err := orderdir.Read(target)
		if errors.Is(err, fs.ErrNotExist) {
			*index++
			return target, nil
		}
		if err != nil {
			return "", services.Wrap(services.ErrNotFound, "split", "inspect sub-order", target, err)
		}
		if len(contents.Documents) == 0 || (len(contents.Documents) == 1 && contents.Documents[0] == doc) {
			*index++
			return target, nil
		}
	}
}

// moveDocument moves src to dst. A destination holding the same bytes means
// an earlier run already moved this document, so the leftover source is
// dropped; different bytes are a conflict.
func moveDocument(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		same, err := fileutil.SameContent(src, dst)
		if err != nil {
			return services.Wrap(services.ErrTransient, "split", "compare document", filepath.Base(src), err)
		}
		if !same {
			return services.Wrap(
				services.ErrConflict,
				"split",
				"move document",
				fmt.Sprintf("%s already exists in %s with different content; resolve manually and rerun", filepath.Base(dst), filepath.Dir(dst)),
				nil,
			)
		}
		if err := os.Remove(src); err != nil {
			return services.Wrap(services.ErrTransient, "split", "remove duplicate", filepath.Base(src), err)
		}
		return nil
	}
	if err := renameNoReplace(src, dst); err != nil {
		marker := services.ErrTransient
		if errors.Is(err, errDestinationExists) {
			marker = services.ErrConflict
		}
		return services.Wrap(marker, "split", "move document", filepath.Base(src), err)
	}
	return nil
}
