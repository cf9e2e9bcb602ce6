package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/couchcryptid/xmrg-etl/internal/observability"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
	"github.com/google/uuid"
)

// Extractor hands out the next file to process, or nil when there is none.
type Extractor interface {
	Extract(ctx context.Context) (*domain.SourceFile, error)
}

// Decoder turns a source file into a grid.
type Decoder interface {
	Decode(ctx context.Context, file *domain.SourceFile) (*xmrg.Grid, error)
}

// BatchLoader writes multiple observations to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, observations []domain.Observation) error
}

// Options tune the run loop.
type Options struct {
	BatchSize    int
	PollInterval time.Duration
	SkipNoData   bool

	// ProjectionCacheSize is the number of grid shapes whose coordinate
	// tables are kept between files. Zero uses a small default.
	ProjectionCacheSize int
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates the extract-decode-load loop, one file at a time.
type Pipeline struct {
	extractor Extractor
	decoder   Decoder
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	projections *projectionCache

	ready   atomic.Bool
	lastRun atomic.Pointer[domain.RunSummary]
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, d Decoder, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	return &Pipeline{
		extractor: e,
		decoder:   d,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,

		projections: newProjectionCache(opts.ProjectionCacheSize),
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one file,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any files yet")
	}
	return nil
}

// LastRun returns the summary of the most recently loaded file.
func (p *Pipeline) LastRun() (domain.RunSummary, bool) {
	s := p.lastRun.Load()
	if s == nil {
		return domain.RunSummary{}, false
	}
	return *s, true
}

// Run executes the ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"batch_size", p.opts.BatchSize,
		"poll_interval", p.opts.PollInterval,
		"skip_no_data", p.opts.SkipNoData,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processFile(ctx, &backoff) {
			return nil
		}
	}
}

// processFile runs one extract-decode-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processFile(ctx context.Context, backoff *time.Duration) bool {
	file, err := p.extractor.Extract(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}
	if file == nil {
		return ctx.Err() == nil && sharedretry.SleepWithContext(ctx, p.opts.PollInterval)
	}

	start := time.Now()
	p.metrics.FilesConsumed.Inc()

	run := domain.Run{
		ID:         uuid.NewString(),
		Source:     file.Name,
		ObservedAt: domain.ObservationTime(*file),
	}
	logger := p.logger.With("file", file.Name, "run_id", run.ID)

	grid, err := p.decoder.Decode(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		logger.Error("decode failed, skipping file", "error", err)
		p.metrics.DecodeErrors.Inc()
		p.commit(ctx, file, logger)
		return true
	}
	run.Version = grid.Version

	if !grid.Version.Decodable() {
		logger.Warn("format version not decodable, skipping file",
			"version", grid.Version,
			"marker", grid.Marker,
			"endian", grid.Endian,
		)
		p.metrics.FilesSkipped.WithLabelValues(grid.Version.String()).Inc()
		p.commit(ctx, file, logger)
		return true
	}

	published, err := p.load(ctx, run, grid)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		// Not committed; the extractor hands the same file out again.
		logger.Error("load failed", "error", err, "published", published)
		p.metrics.LoadErrors.Inc()
		return p.backoffOrStop(ctx, backoff)
	}
	*backoff = initialBackoff

	p.commit(ctx, file, logger)

	summary := domain.NewRunSummary(run, grid, published, start)
	p.lastRun.Store(&summary)
	p.ready.Store(true)

	p.metrics.FileProcessDuration.Observe(time.Since(start).Seconds())
	p.metrics.GridCells.Set(float64(summary.Cells))
	p.metrics.GridMeanMM.Set(summary.MeanMM)
	p.metrics.GridMaxMM.Set(summary.MaxMM)
	p.metrics.LastSuccessTS.SetToCurrentTime()

	logger.Info("file loaded",
		"version", grid.Version,
		"endian", grid.Endian,
		"columns", grid.Header.Columns,
		"rows", grid.Header.Rows,
		"observed_at", run.ObservedAt,
		"published", published,
		"max_mm", summary.MaxMM,
	)
	return true
}

// load streams the grid's features to the loader in batches and returns the
// number of observations written.
func (p *Pipeline) load(ctx context.Context, run domain.Run, grid *xmrg.Grid) (int, error) {
	batch := make([]domain.Observation, 0, p.opts.BatchSize)
	published := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.loader.LoadBatch(ctx, batch); err != nil {
			return err
		}
		p.metrics.BatchSize.Observe(float64(len(batch)))
		p.metrics.ObservationsLoaded.Add(float64(len(batch)))
		published += len(batch)
		batch = batch[:0]
		return nil
	}

	for f := range p.projections.features(grid) {
		if p.opts.SkipNoData && f.Value == xmrg.NoData {
			p.metrics.NoDataCellsSkipped.Inc()
			continue
		}
		batch = append(batch, domain.NewObservation(run, f))
		if len(batch) == p.opts.BatchSize {
			if err := flush(); err != nil {
				return published, err
			}
		}
	}
	if err := flush(); err != nil {
		return published, err
	}
	return published, nil
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sharedretry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = sharedretry.NextBackoff(*backoff, maxBackoff)
	return true
}

func (p *Pipeline) commit(ctx context.Context, file *domain.SourceFile, logger *slog.Logger) {
	if file.Commit == nil {
		return
	}
	if err := file.Commit(ctx); err != nil {
		logger.Warn("commit file failed", "error", err, "path", file.Path)
	}
}
