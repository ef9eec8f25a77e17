package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fulfill/internal/config"
	"fulfill/internal/fileutil"
	"fulfill/internal/fulfillment"
	"fulfill/internal/ledger"
	"fulfill/internal/logging"
	"fulfill/internal/orderdir"
	"fulfill/internal/services"
)

// BatchName returns the batch directory name for now: "{month}.{day}"
// without zero padding or year.
func BatchName(now time.Time) string {
	return fmt.Sprintf("%d.%d", int(now.Month()), now.Day())
}

// Archiver moves processed work into batch directories.
type Archiver struct {
	ledgerName string
	reserved   orderdir.Reserved
	logger     *slog.Logger
}

// NewArchiver constructs an archiver using the configured ledger file name.
func NewArchiver(cfg *config.Config, logger *slog.Logger) *Archiver {
	name := cfg.Ledger.FileName
	if name == "" {
		name = config.Default().Ledger.FileName
	}
	return &Archiver{
		ledgerName: name,
		reserved:   orderdir.NewReserved(cfg.ReservedDirs()...),
		logger:     logging.NewComponentLogger(logger, "archiver"),
	}
}

// Archive creates or reuses {main}/{batch} and moves every order and
// sub-order directory of main into it, in name order. Reserved directories
// such as the archive mirror stay in main. The first destination
// that already exists stops the batch with services.ErrConflict.
func (a *Archiver) Archive(ctx context.Context, main, batch string) ([]string, error) {
	batchDir := filepath.Join(main, batch)
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "archive", "create batch dir", batchDir, err)
	}
	names, err := orderdir.List(main, a.reserved.OrderLike)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "archive", "list orders", main, err)
	}

	var moved []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		src := filepath.Join(main, name)
		dst := filepath.Join(batchDir, name)
		if err := renameNoReplace(src, dst); err != nil {
			if errors.Is(err, errDestinationExists) {
				logging.ErrorWithContext(logging.WithContext(services.WithOrderID(ctx, name), a.logger),
					"batch already holds this order", "archive_conflict",
					logging.String("destination", dst),
					logging.String(logging.FieldErrorHint, "compare both directories, keep one, and rerun"),
				)
				return moved, services.Wrap(
					services.ErrConflict,
					"archive",
					"move order",
					fmt.Sprintf("%s already exists in batch %s", name, batch),
					err,
				)
			}
			return moved, services.Wrap(services.ErrTransient, "archive", "move order", name, err)
		}
		moved = append(moved, name)
	}
	a.logger.Info("orders archived",
		logging.String("batch", batch),
		logging.Int("orders", len(moved)),
		logging.String(logging.FieldEventType, "orders_archived"),
	)
	return moved, nil
}

// Artifacts reports what MoveArtifacts did.
type Artifacts struct {
	StatusDocuments int
	LedgerAdded     int
	LedgerPath      string
}

// MoveArtifacts moves {main}/XML into the batch, merging with status
// documents already there, and folds the main ledger into the batch ledger.
// A status document that exists in both places with different content is a
// conflict.
func (a *Archiver) MoveArtifacts(ctx context.Context, main, batch string) (Artifacts, error) {
	batchDir := filepath.Join(main, batch)
	result := Artifacts{LedgerPath: filepath.Join(batchDir, a.ledgerName)}
	if err := os.MkdirAll(batchDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "archive", "create batch dir", batchDir, err)
	}

	moved, err := mergeStatusDir(filepath.Join(main, fulfillment.StatusDirName), filepath.Join(batchDir, fulfillment.StatusDirName))
	result.StatusDocuments = moved
	if err != nil {
		return result, err
	}

	mainLedgerPath := filepath.Join(main, a.ledgerName)
	rows, err := ledger.Open(mainLedgerPath).Rows()
	if err != nil {
		return result, err
	}
	if rows != nil {
		added, err := ledger.Open(result.LedgerPath).Append(rows)
		result.LedgerAdded = added
		if err != nil {
			return result, err
		}
		if err := os.Remove(mainLedgerPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return result, services.Wrap(services.ErrTransient, "archive", "remove ledger", mainLedgerPath, err)
		}
	}

	logging.WithContext(ctx, a.logger).Info("artifacts moved into batch",
		logging.String("batch", batch),
		logging.Int("status_documents", result.StatusDocuments),
		logging.Int("ledger_rows", result.LedgerAdded),
		logging.String(logging.FieldEventType, "artifacts_moved"),
	)
	return result, nil
}

func mergeStatusDir(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "archive", "list status documents", src, err)
	}
	if err := renameNoReplace(src, dst); err == nil {
		return len(entries), nil
	} else if !errors.Is(err, errDestinationExists) {
		return 0, services.Wrap(services.ErrTransient, "archive", "move status documents", src, err)
	}

	moved := 0
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		err := renameNoReplace(from, to)
		if err == nil {
			moved++
			continue
		}
		if !errors.Is(err, errDestinationExists) {
			return moved, services.Wrap(services.ErrTransient, "archive", "move status document", entry.Name(), err)
		}
		same, cmpErr := fileutil.SameContent(from, to)
		if cmpErr != nil {
			return moved, services.Wrap(services.ErrTransient, "archive", "compare status document", entry.Name(), cmpErr)
		}
		if !same {
			return moved, services.Wrap(
				services.ErrConflict,
				"archive",
				"move status document",
				fmt.Sprintf("%s differs from the copy already in %s", entry.Name(), dst),
				nil,
			)
		}
		if err := os.Remove(from); err != nil {
			return moved, services.Wrap(services.ErrTransient, "archive", "remove duplicate status", entry.Name(), err)
		}
	}
	if err := os.Remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return moved, services.Wrap(services.ErrTransient, "archive", "remove status dir", src, err)
	}
	return moved, nil
}
