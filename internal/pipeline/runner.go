package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"fulfill/internal/archive"
	"fulfill/internal/config"
	"fulfill/internal/fulfillment"
	"fulfill/internal/ledger"
	"fulfill/internal/logging"
	"fulfill/internal/orderdir"
	"fulfill/internal/organizer"
	"fulfill/internal/preflight"
	"fulfill/internal/queue"
	"fulfill/internal/services"
)

// LockFileName is created in the main directory while a run holds it.
const LockFileName = ".fulfill.lock"

// Summary reports the outcome of a run.
type Summary struct {
	RunID       string
	Batch       string
	Orders      int
	SubOrders   int
	Records     int
	Unreadable  int
	LedgerAdded int
	ExportPath  string
	LedgerPath  string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock overrides the time source used for batch names and dates.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg      *config.Config
	store    *queue.Store
	sink     services.Sink
	logger   *slog.Logger
	now      func() time.Time
	ingestor *archive.Ingestor
	builder  *fulfillment.Builder
	splitter *organizer.Splitter
	archiver *organizer.Archiver
}

// NewRunner constructs a runner. store may be nil, in which case nothing is
// journaled and already-archived orders are never skipped.
func NewRunner(cfg *config.Config, store *queue.Store, text services.TextExtractor, sink services.Sink, logger *slog.Logger, opts ...Option) *Runner {
	base := logger
	if base == nil {
		base = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		store:    store,
		sink:     sink,
		logger:   logging.NewComponentLogger(base, "pipeline"),
		now:      time.Now,
		ingestor: archive.NewIngestor(cfg.Archive, base),
		builder:  fulfillment.NewBuilder(cfg, text, base),
		splitter: organizer.NewSplitter(cfg, base),
		archiver: organizer.NewArchiver(cfg, base),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes main. An empty main uses the configured main directory.
func (r *Runner) Run(ctx context.Context, main string) (Summary, error) {
	if strings.TrimSpace(main) == "" {
		main = r.cfg.Paths.MainDir
	}
	main = filepath.Clean(main)

	checked := *r.cfg
	checked.Paths.MainDir = main
	if err := preflight.Err(preflight.RunAll(&checked)); err != nil {
		return Summary{}, err
	}

	lock := flock.New(filepath.Join(main, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, services.Wrap(services.ErrTransient, "pipeline", "acquire lock", main, err)
	}
	if !locked {
		return Summary{}, services.Wrap(services.ErrConflict, "pipeline", "acquire lock",
			fmt.Sprintf("another run is already processing %s", main), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	now := r.now()
	run := &runState{
		Runner:  r,
		main:    main,
		now:     now,
		touched: make(map[string]struct{}),
		summary: Summary{
			RunID: uuid.NewString(),
			Batch: organizer.BatchName(now),
		},
	}
	ctx = services.WithRunID(ctx, run.summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if r.store != nil {
		if _, err := r.store.BeginRun(ctx, run.summary.RunID, main, run.summary.Batch); err != nil {
			return run.summary, services.Wrap(services.ErrTransient, "pipeline", "begin run", run.summary.RunID, err)
		}
	}
	logger.Info("run started",
		logging.String("main_dir", main),
		logging.String("batch", run.summary.Batch),
		logging.String(logging.FieldEventType, "run_start"),
	)

	runErr := run.execute(ctx)
	run.finish(ctx, runErr)
	if runErr != nil {
		return run.summary, runErr
	}

	logger.Info("run completed",
		logging.String("batch", run.summary.Batch),
		logging.Int("orders", run.summary.Orders),
		logging.Int("records", run.summary.Records),
		logging.Int("ledger_added", run.summary.LedgerAdded),
		logging.String("export_path", run.summary.ExportPath),
		logging.String(logging.FieldEventType, "run_complete"),
	)
	return run.summary, nil
}

// runState carries one run's progress between stages.
type runState struct {
	*Runner
	main    string
	now     time.Time
	summary Summary
	// touched holds every order id journaled during this run.
	touched map[string]struct{}
}

func (s *runState) batchDir() string {
	return filepath.Join(s.main, s.summary.Batch)
}

func (s *runState) execute(ctx context.Context) error {
	var statusDocs []fulfillment.StatusDocument
	var records fulfillment.Batch

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"mirror", func(ctx context.Context) error {
			_, err := s.ingestor.Mirror(ctx, s.main)
			return err
		}},
		{"ingest", s.ingest},
		{"status", func(ctx context.Context) error {
			var err error
			statusDocs, err = s.builder.EmitStatusDocuments(ctx, s.main, s.now)
			if err != nil {
				return err
			}
			return s.journal(ctx, queue.StatusRecorded, "", statusOrderIDs(statusDocs)...)
		}},
		{"ledger", func(context.Context) error {
			_, err := ledger.Open(filepath.Join(s.main, s.cfg.Ledger.FileName)).Append(ledger.RowsFromDocuments(statusDocs))
			return err
		}},
		{"split", s.split},
		{"archive", func(ctx context.Context) error {
			moved, err := s.archiver.Archive(ctx, s.main, s.summary.Batch)
			if jerr := s.journal(ctx, queue.StatusArchived, "", moved...); jerr != nil && err == nil {
				err = jerr
			}
			return err
		}},
		{"artifacts", func(ctx context.Context) error {
			artifacts, err := s.archiver.MoveArtifacts(ctx, s.main, s.summary.Batch)
			s.summary.LedgerAdded = artifacts.LedgerAdded
			s.summary.LedgerPath = artifacts.LedgerPath
			return err
		}},
		{"records", func(ctx context.Context) error {
			var err error
			records, err = s.builder.BuildRecords(ctx, s.batchDir(), s.now)
			if err != nil {
				return err
			}
			s.summary.Records = len(records.Records)
			return s.flagUnreadable(ctx, records.Failed())
		}},
		{"export", func(ctx context.Context) error {
			return s.export(ctx, records)
		}},
	}

	for _, stage := range stages {
		if err := s.runStage(ctx, stage.name, stage.fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *runState) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, s.logger)
	started := time.Now()
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := fn(stageCtx); err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String("resolved_status", string(services.FailureStatus(err))),
			logging.Error(err),
		)
		return err
	}

	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (s *runState) ingest(ctx context.Context) error {
	skip := func(id string) bool {
		if s.store == nil {
			return false
		}
		archived, err := s.store.IsArchived(ctx, id, s.summary.Batch)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(services.WithOrderID(ctx, id), s.logger),
				"journal lookup failed; extracting order again", "journal_lookup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the journal database"),
				logging.String(logging.FieldImpact, "order archives are re-extracted"),
			)
			return false
		}
		return archived
	}
	result, err := s.ingestor.Ingest(ctx, s.main, skip)
	s.summary.Orders = len(result.Orders)
	for _, id := range result.Orders {
		documents := 0
		if contents, readErr := orderdir.Read(filepath.Join(s.main, id)); readErr == nil {
			documents = len(contents.Documents)
		}
		if jerr := s.record(ctx, queue.Order{OrderID: id, Status: queue.StatusExtracted, Documents: documents}); jerr != nil && err == nil {
			err = jerr
		}
	}
	return err
}

func (s *runState) split(ctx context.Context) error {
	result, err := s.splitter.Split(ctx, s.main)
	s.summary.SubOrders = len(result.Created)
	if jerr := s.journal(ctx, queue.StatusSplit, "", result.Parents...); jerr != nil && err == nil {
		err = jerr
	}
	for _, id := range result.Created {
		if jerr := s.record(ctx, queue.Order{OrderID: id, Status: queue.StatusSplit, Documents: 1}); jerr != nil && err == nil {
			err = jerr
		}
	}
	return err
}

// flagUnreadable moves orders with an unreadable document to review.
func (s *runState) flagUnreadable(ctx context.Context, failed []fulfillment.DocumentResult) error {
	s.summary.Unreadable = len(failed)
	byOrder := make(map[string][]string)
	for _, doc := range failed {
		id := filepath.Base(filepath.Dir(doc.Path))
		byOrder[id] = append(byOrder[id], fmt.Sprintf("%s: %v", filepath.Base(doc.Path), doc.Err))
	}
	ids := make([]string, 0, len(byOrder))
	for id := range byOrder {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		order := queue.Order{OrderID: id, Status: queue.StatusReview, ErrorMessage: strings.Join(byOrder[id], "; ")}
		if err := s.record(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

func (s *runState) export(ctx context.Context, records fulfillment.Batch) error {
	if s.sink == nil {
		return services.Wrap(services.ErrConfiguration, "export", "write spreadsheet", "no export sink configured", nil)
	}
	path := filepath.Join(s.batchDir(), s.cfg.Export.FileName)
	if err := s.sink.Write(path, fulfillment.ExportHeaders, fulfillment.Rows(records.Records)); err != nil {
		return services.Wrap(services.ErrTransient, "export", "write spreadsheet", path, err)
	}
	s.summary.ExportPath = path

	if s.store == nil {
		return nil
	}
	orders, err := s.store.Orders(ctx, queue.OrderFilter{RunID: s.summary.RunID, Batch: s.summary.Batch})
	if err != nil {
		return services.Wrap(services.ErrTransient, "export", "read journal", s.summary.Batch, err)
	}
	// Orders under review keep that status.
	var exported []string
	for _, order := range orders {
		if order.Status != queue.StatusReview {
			exported = append(exported, order.OrderID)
		}
	}
	return s.journal(ctx, queue.StatusExported, "", exported...)
}

func (s *runState) touchedIDs() []string {
	ids := make([]string, 0, len(s.touched))
	for id := range s.touched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *runState) journal(ctx context.Context, status queue.Status, message string, ids ...string) error {
	for _, id := range ids {
		if err := s.record(ctx, queue.Order{OrderID: id, Status: status, ErrorMessage: message}); err != nil {
			return err
		}
	}
	return nil
}

func (s *runState) record(ctx context.Context, order queue.Order) error {
	if s.store == nil {
		return nil
	}
	order.Batch = s.summary.Batch
	order.RunID = s.summary.RunID
	if err := s.store.RecordOrder(ctx, order); err != nil {
		return services.Wrap(services.ErrTransient, "journal", "record order", order.OrderID, err)
	}
	s.touched[order.OrderID] = struct{}{}
	return nil
}

// finish records the run outcome. On failure every order this run touched
// takes the failure status so the journal shows where the run stopped.
func (s *runState) finish(ctx context.Context, runErr error) {
	if s.store == nil {
		return
	}
	// Journal writes must land even when the run was cancelled.
	ctx = context.WithoutCancel(ctx)
	if runErr != nil {
		status := services.FailureStatus(runErr)
		for _, id := range s.touchedIDs() {
			order := queue.Order{OrderID: id, Batch: s.summary.Batch, RunID: s.summary.RunID, Status: status, ErrorMessage: runErr.Error()}
			if err := s.store.RecordOrder(ctx, order); err != nil {
				s.logger.Warn("record order failure failed", logging.String(logging.FieldOrderID, id), logging.Error(err))
			}
		}
	}
	outcome := queue.RunOutcome{
		Orders:      s.summary.Orders,
		Records:     s.summary.Records,
		LedgerAdded: s.summary.LedgerAdded,
		ExportPath:  s.summary.ExportPath,
	}
	if err := s.store.FinishRun(ctx, s.summary.RunID, outcome, runErr); err != nil {
		s.logger.Error("finish run failed",
			logging.String(logging.FieldEventType, "journal_error"),
			logging.String(logging.FieldRunID, s.summary.RunID),
			logging.Error(err),
		)
	}
}

func statusOrderIDs(docs []fulfillment.StatusDocument) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.OrderID)
	}
	return ids
}
