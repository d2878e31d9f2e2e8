package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

// AssessTransformer decodes granule-set messages and turns them into smoke
// threat assessments.
type AssessTransformer struct {
	opts   domain.AssessOptions
	logger *slog.Logger
}

// NewAssessTransformer creates a transformer with the given assessment
// options. Zero-value options fall back to the domain defaults.
func NewAssessTransformer(opts domain.AssessOptions, logger *slog.Logger) *AssessTransformer {
	return &AssessTransformer{opts: opts, logger: logger}
}

// Transform decodes the raw message payload and assesses the granule set.
func (t *AssessTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Assessment{}, err
	}

	set, err := domain.DecodeGranuleSet(raw.Value, t.logger)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("decoding granule set at %s[%d]@%d: %w",
			raw.Topic, raw.Partition, raw.Offset, err)
	}

	assessment, err := domain.Assess(set, t.opts, t.logger)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("assessing granule set %q: %w", set.RequestID, err)
	}

	return assessment, nil
}
