package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"db-compare/internal/compare"
	"db-compare/internal/cursor"
	"db-compare/internal/dialect"
	"db-compare/internal/mapping"
	"db-compare/internal/metrics"
	"db-compare/internal/platform"
	"db-compare/internal/report"
	"db-compare/internal/schema"
)

type Option func(*Engine)

// WithWorkers bounds the number of tables compared at once.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func WithDiff(w DiffWriter) Option {
	return func(e *Engine) { e.diff = w }
}

func WithComparator(c *compare.Comparator) Option {
	return func(e *Engine) { e.comparator = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithProgress observes cursor progress every interval rows on either side.
func WithProgress(interval int64, fn func(side string, p cursor.Progress)) Option {
	return func(e *Engine) {
		e.progressInterval = interval
		e.onProgress = fn
	}
}

// WithTableDone is called once per successfully compared table.
func WithTableDone(fn func(*report.TableReport)) Option {
	return func(e *Engine) { e.onTableDone = fn }
}

// Engine reconciles table pairings between a source and a target data source.
type Engine struct {
	source     platform.Adapter
	target     platform.Adapter
	comparator *compare.Comparator
	diff       DiffWriter
	metrics    *metrics.Metrics
	log        *zap.Logger
	workers    int

	progressInterval int64
	onProgress       func(side string, p cursor.Progress)
	onTableDone      func(*report.TableReport)
}

func New(source, target platform.Adapter, opts ...Option) *Engine {
	e := &Engine{
		source:           source,
		target:           target,
		log:              zap.NewNop(),
		workers:          1,
		progressInterval: cursor.DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.comparator == nil {
		e.comparator = compare.New(source.Name(), target.Name())
	}
	return e
}

// Run compares the pairings on a bounded pool of workers. Reports are added in
// pairing order. On failure the reports of the tables that completed are returned
// along with the first error.
func (e *Engine) Run(ctx context.Context, pairings []*mapping.Pairing) (*report.RunReport, error) {
	rr := report.NewRunReport()
	log := e.log.With(zap.String("run_id", rr.RunID))
	log.Info("Starting comparison", zap.Int("tables", len(pairings)), zap.Int("workers", e.workers))

	results := make([]*report.TableReport, len(pairings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range pairings {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr, err := e.CompareTable(gctx, p)
			if err != nil {
				return err
			}
			results[i] = tr
			if e.onTableDone != nil {
				e.onTableDone(tr)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	for _, tr := range results {
		if tr != nil {
			rr.AddTableReport(tr)
		}
	}
	rr.Finish()

	if err != nil {
		log.Error("Comparison aborted", zap.Int("completed", len(rr.Tables)), zap.Error(err))
		return rr, err
	}
	total := rr.Totals()
	log.Info("Comparison finished",
		zap.Int("tables", len(rr.Tables)),
		zap.Int64("matched", total.Matched),
		zap.Int64("changed", total.Changed),
		zap.Int64("missing", total.Missing),
		zap.Int64("extra", total.Extra),
		zap.Duration("elapsed", rr.FinishedAt.Sub(rr.StartedAt)))
	return rr, nil
}

// CompareTable merge-joins the two sides of one pairing. Both cursors are released
// on every path.
func (e *Engine) CompareTable(ctx context.Context, p *mapping.Pairing) (*report.TableReport, error) {
	start := time.Now()
	name := p.Source.FullyQualifiedName()
	log := e.log.With(zap.String("source_table", name), zap.String("target_table", p.Target.FullyQualifiedName()))

	e.metrics.TableStarted()
	tr, err := e.compareTable(ctx, p, log)
	e.metrics.TableFinished(err == nil, time.Since(start).Seconds())
	if err != nil {
		log.Error("Table comparison failed", zap.Error(err))
		return nil, &TableError{Table: name, Err: err}
	}
	tr.Duration = time.Since(start)

	e.metrics.AddRows(Matched.String(), tr.Matched)
	e.metrics.AddRows(Changed.String(), tr.Changed)
	e.metrics.AddRows(SourceOnly.String(), tr.Missing)
	e.metrics.AddRows(TargetOnly.String(), tr.Extra)
	e.metrics.AddRowsRead("source", tr.SourceRows)
	e.metrics.AddRowsRead("target", tr.TargetRows)

	log.Info("Table compared",
		zap.Int64("matched", tr.Matched),
		zap.Int64("changed", tr.Changed),
		zap.Int64("missing", tr.Missing),
		zap.Int64("extra", tr.Extra),
		zap.Int64("rows", tr.SourceRows),
		zap.Duration("elapsed", tr.Duration))
	return tr, nil
}

func (e *Engine) compareTable(ctx context.Context, p *mapping.Pairing, log *zap.Logger) (*report.TableReport, error) {
	if err := p.Source.Validate(); err != nil {
		return nil, err
	}
	if err := p.Target.Validate(); err != nil {
		return nil, err
	}
	keys, unmapped := p.KeyPairs()
	if len(unmapped) > 0 {
		return nil, fmt.Errorf("key columns %v are not mapped to the target: %w", unmapped, schema.ErrNoPrimaryKey)
	}
	// The target is read in source key order so both cursors agree with ComparePrimaryKeys.
	targetKeys, ok := p.TargetKeyOrder()
	if !ok {
		return nil, fmt.Errorf("target primary key of %s does not match the mapped source key: %w",
			p.Target.FullyQualifiedName(), schema.ErrNoPrimaryKey)
	}
	e.warnTextKeyOrder(keys, log)

	src, err := cursor.Open(ctx, e.source, p.Source, e.cursorOptions("source", log)...)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	tgtOpts := append(e.cursorOptions("target", log), cursor.WithKeyOrder(targetKeys))
	tgt, err := cursor.Open(ctx, e.target, p.Target, tgtOpts...)
	if err != nil {
		return nil, err
	}
	defer tgt.Close()

	tr := report.NewTableReport(p.Source.FullyQualifiedName(), p.Target.FullyQualifiedName())

	srcRow, err := next(src)
	if err != nil {
		return nil, err
	}
	tgtRow, err := next(tgt)
	if err != nil {
		return nil, err
	}

	for srcRow != nil || tgtRow != nil {
		var (
			outcome Outcome
			delta   compare.Delta
		)
		switch {
		case srcRow == nil:
			outcome = TargetOnly
		case tgtRow == nil:
			outcome = SourceOnly
		default:
			switch c := e.comparator.ComparePrimaryKeys(p, srcRow, tgtRow); {
			case c == 0:
				delta = e.comparator.Delta(p, srcRow, tgtRow)
				outcome = Matched
				if !delta.Empty() {
					outcome = Changed
				}
			case c < 0:
				outcome = SourceOnly
			default:
				outcome = TargetOnly
			}
		}

		if err := e.emit(outcome, p, srcRow, tgtRow, delta); err != nil {
			return nil, err
		}

		switch outcome {
		case Matched:
			tr.Matched++
		case Changed:
			tr.Changed++
		case SourceOnly:
			tr.Missing++
		case TargetOnly:
			tr.Extra++
		}

		if outcome != TargetOnly {
			if srcRow, err = next(src); err != nil {
				return nil, err
			}
		}
		if outcome != SourceOnly {
			if tgtRow, err = next(tgt); err != nil {
				return nil, err
			}
		}
	}

	tr.SourceRows = src.Count()
	tr.TargetRows = tgt.Count()
	return tr, nil
}

func (e *Engine) emit(outcome Outcome, p *mapping.Pairing, srcRow, tgtRow schema.Row, delta compare.Delta) error {
	if e.diff == nil {
		return nil
	}
	switch outcome {
	case Changed:
		return e.diff.Update(p, tgtRow, delta)
	case SourceOnly:
		return e.diff.Insert(p, srcRow)
	case TargetOnly:
		return e.diff.Delete(p, tgtRow)
	}
	return nil
}

// warnTextKeyOrder flags text keys read from an engine whose default collation is not
// byte order; the merge assumes byte order and would report spurious differences.
func (e *Engine) warnTextKeyOrder(keys []mapping.ColumnPair, log *zap.Logger) {
	var textKeys []string
	for _, kp := range keys {
		if kp.Source.Kind == schema.KindText || kp.Target.Kind == schema.KindText {
			textKeys = append(textKeys, kp.Source.Name)
		}
	}
	if len(textKeys) == 0 {
		return
	}
	for _, a := range []platform.Adapter{e.source, e.target} {
		if !dialect.GetDialect(a.Name()).BinaryTextOrder() {
			log.Warn("Text primary key ordered by a non-binary collation",
				zap.String("platform", a.Name()), zap.Strings("columns", textKeys))
		}
	}
}

func (e *Engine) cursorOptions(side string, log *zap.Logger) []cursor.Option {
	return []cursor.Option{cursor.WithProgress(e.progressInterval, func(pr cursor.Progress) {
		log.Debug("Reading rows", zap.String("side", side), zap.String("table", pr.Table),
			zap.Int64("rows", pr.Rows), zap.Duration("elapsed", pr.Elapsed))
		if e.onProgress != nil {
			e.onProgress(side, pr)
		}
	})}
}

// next returns nil at the end of the cursor.
func next(c *cursor.Cursor) (schema.Row, error) {
	row, err := c.Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return row, err
}
