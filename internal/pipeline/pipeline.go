package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/emberwatch/smoke-threat-etl/internal/domain"
	"github.com/emberwatch/smoke-threat-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw granule-set messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer decodes a raw granule set and assesses it.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.Assessment, error)
}

// BatchLoader writes assessments to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, assessments []domain.Assessment) error
}

// SnapshotStore persists the most recent assessment for other services to
// read. Writes are best-effort: a store failure never fails the batch.
type SnapshotStore interface {
	SaveLatest(ctx context.Context, a domain.Assessment) error
}

// Pipeline orchestrates the extract-assess-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	snapshots   SnapshotStore // nil when the snapshot store is disabled
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability. Pass a nil
// snapshot store to disable snapshot writes.
func New(e BatchExtractor, t Transformer, l BatchLoader, s SnapshotStore, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		snapshots:   s,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one
// granule set, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any granule sets yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-assess-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.GranuleSetsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	loaded, ok := p.assessAndLoad(ctx, rawBatch, backoff, maxBackoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// assessAndLoad transforms each granule set in the batch, loads the
// successes, and commits offsets. Returns the number of successfully loaded
// assessments and false if the pipeline should stop.
func (p *Pipeline) assessAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]domain.Assessment, 0, len(rawBatch))
	successfulRaws := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		scoreStart := time.Now()
		assessment, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("assessment failed, skipping granule set",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		p.metrics.ScoringDuration.Observe(time.Since(scoreStart).Seconds())
		p.recordAssessment(assessment)
		outBatch = append(outBatch, assessment)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return 0, p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.AssessmentsProduced.Add(float64(len(outBatch)))
	p.saveSnapshot(ctx, outBatch[len(outBatch)-1])

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// recordAssessment updates domain metrics from one assessment.
func (p *Pipeline) recordAssessment(a domain.Assessment) {
	outcome := "scored"
	if a.InsufficientData {
		outcome = "insufficient_data"
	}
	p.metrics.AssessmentOutcomes.WithLabelValues(outcome).Inc()

	for product, n := range a.ProductSamples {
		p.metrics.SamplesExtracted.WithLabelValues(string(product)).Add(float64(n))
	}
	for level, n := range a.LevelCounts {
		p.metrics.ThreatPointLevels.WithLabelValues(string(level)).Add(float64(n))
	}
	for product, n := range a.MatchStats.Matched {
		p.metrics.MatchOutcomes.WithLabelValues(string(product), "matched").Add(float64(n))
	}
	for product, n := range a.MatchStats.Defaulted {
		p.metrics.MatchOutcomes.WithLabelValues(string(product), "defaulted").Add(float64(n))
	}
}

// saveSnapshot best-effort persists the newest assessment of the batch.
func (p *Pipeline) saveSnapshot(ctx context.Context, a domain.Assessment) {
	if p.snapshots == nil {
		return
	}
	if err := p.snapshots.SaveLatest(ctx, a); err != nil {
		p.logger.Warn("snapshot write failed", "error", err, "request_id", a.RequestID)
		p.metrics.SnapshotWrites.WithLabelValues("error").Inc()
		return
	}
	p.metrics.SnapshotWrites.WithLabelValues("ok").Inc()
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
