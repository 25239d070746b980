// Package pipeline runs the per-file conversion loop: read rows, transform
// each into one BUFR message, append to the sinks, and account for every
// skipped row. Row-level failures never abort a run; only setup and sink
// errors do.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/promice/aws2bufr/internal/bufr"
	"github.com/promice/aws2bufr/internal/domain"
	"github.com/promice/aws2bufr/internal/observability"
)

// Skip reasons, shared by logs, metrics, and the run journal.
const (
	ReasonMalformedRow     = "malformed_row"
	ReasonTemplateMismatch = "template_mismatch"
	ReasonCodecError       = "codec_error"
)

// Sink receives fully-encoded messages in row order.
type Sink interface {
	Write(ctx context.Context, msg domain.EncodedMessage) error
}

// SkippedRow records one row that produced no message.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Summary is the per-run accounting reported to the operator, the journal,
// and the status endpoint.
type Summary struct {
	RunID           string         `json:"run_id"`
	Input           string         `json:"input"`
	RowsRead        int            `json:"rows_read"`
	MessagesWritten int            `json:"messages_written"`
	Skipped         map[string]int `json:"skipped"`
	SkippedRows     []SkippedRow   `json:"skipped_rows,omitempty"`
	UnmappedColumns []string       `json:"unmapped_columns,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
}

// Pipeline converts one input source per Run call. The transformer is
// shared across runs; sinks are per run, so each input file owns its own
// output destination.
type Pipeline struct {
	transformer *Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool

	// unmappedReported is how many unknown columns have already been counted
	// in metrics; the resolver's set accumulates across runs, the metric must
	// only grow by the newly seen ones.
	unmappedReported int

	mu   sync.Mutex
	last *Summary
}

// New creates a Pipeline.
func New(transformer *Transformer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		transformer: transformer,
		logger:      logger,
		metrics:     metrics,
	}
}

// LastSummary returns the most recently completed run's summary, for the
// status endpoint. ok is false before the first run finishes.
func (p *Pipeline) LastSummary() (Summary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Summary{}, false
	}
	return *p.last, true
}

// CheckReadiness returns nil once at least one message has been written.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no messages written yet")
	}
	return nil
}

// Run converts every row of src. One row yields at most one message;
// messages are appended to the sinks in row order. Row-level errors are
// classified, logged, counted, and skipped. Returns a non-nil error only
// for fatal conditions: context cancellation, an unreadable source, or a
// sink failure. The Summary is valid in both cases.
func (p *Pipeline) Run(ctx context.Context, src RowSource, sinks []Sink, input string) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		Input:     input,
		Skipped:   make(map[string]int),
		StartedAt: clock.Now(),
	}
	p.logger.Info("run started", "run_id", summary.RunID, "input", input)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	err := p.process(ctx, src, sinks, &summary)

	summary.UnmappedColumns = p.transformer.UnmappedColumns()
	summary.FinishedAt = clock.Now()
	if delta := len(summary.UnmappedColumns) - p.unmappedReported; delta > 0 {
		p.metrics.UnmappedColumns.Add(float64(delta))
		p.unmappedReported = len(summary.UnmappedColumns)
	}

	p.mu.Lock()
	p.last = &summary
	p.mu.Unlock()

	p.logger.Info("run finished",
		"run_id", summary.RunID,
		"input", input,
		"rows", summary.RowsRead,
		"messages", summary.MessagesWritten,
		"skipped", summary.Skipped,
		"unmapped_columns", summary.UnmappedColumns,
	)
	return summary, err
}

func (p *Pipeline) process(ctx context.Context, src RowSource, sinks []Sink, summary *Summary) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, domain.ErrMalformedRow) {
			summary.RowsRead++
			p.metrics.RowsRead.Inc()
			p.skip(summary, raw.Line, ReasonMalformedRow, err)
			continue
		}
		if err != nil {
			return err
		}

		summary.RowsRead++
		p.metrics.RowsRead.Inc()

		start := clock.Now()
		msg, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.skip(summary, raw.Line, classify(err), err)
			continue
		}
		p.metrics.EncodeDuration.Observe(clock.Since(start).Seconds())

		// A sink failure is fatal for the run: the output file can no
		// longer be trusted to contain only complete messages in order.
		for _, sink := range sinks {
			if err := sink.Write(ctx, msg); err != nil {
				return err
			}
		}

		summary.MessagesWritten++
		p.metrics.MessagesEncoded.Inc()
		p.ready.Store(true)
	}
}

func (p *Pipeline) skip(summary *Summary, line int, reason string, err error) {
	summary.Skipped[reason]++
	summary.SkippedRows = append(summary.SkippedRows, SkippedRow{
		Line:   line,
		Reason: reason,
		Detail: err.Error(),
	})
	p.metrics.RowsSkipped.WithLabelValues(reason).Inc()
	p.logger.Warn("row skipped", "line", line, "reason", reason, "error", err)
}

// classify maps a transform error to its skip-reason label.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedRow):
		return ReasonMalformedRow
	case errors.Is(err, bufr.ErrTemplateMismatch):
		return ReasonTemplateMismatch
	default:
		return ReasonCodecError
	}
}
