package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gridfeed/pkg/grid"
	"gridfeed/pkg/observability"
	"gridfeed/viewer-service/internal/state"
)

// Recorder persists consumed batches for later inspection.
type Recorder interface {
	Record(ctx context.Context, b grid.Batch, payload []byte) error
}

// Processor decodes consumed payloads and applies them to the grid.
type Processor struct {
	grid     *state.Grid
	recorder Recorder // nil when the audit sink is disabled
	logger   zerolog.Logger
}

func NewProcessor(g *state.Grid, recorder Recorder, logger zerolog.Logger) *Processor {
	return &Processor{grid: g, recorder: recorder, logger: logger}
}

func (p *Processor) Handle(ctx context.Context, key string, value []byte) error {
	b, err := grid.DecodeBatch(value)
	if err != nil {
		observability.DecodeFailures.Inc()
		p.logger.Warn().Err(err).Str("key", key).Msg("skipping undecodable payload")
		return err
	}

	applied, err := p.grid.Apply(b)
	if err != nil {
		// Bad coordinates are a data problem, not a processing failure.
		// The in-bounds changes are already applied; move on.
		if errors.Is(err, state.ErrOutOfBounds) {
			p.logger.Warn().Err(err).Str("batchId", b.BatchID).Msg("batch partially applied")
		} else {
			return fmt.Errorf("apply batch %s: %w", b.BatchID, err)
		}
	}
	observability.AppliedBatches.Inc()
	observability.AppliedCells.Add(float64(applied))

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, b, value); err != nil {
			return fmt.Errorf("record batch %s: %w", b.BatchID, err)
		}
	}

	p.logger.Debug().
		Str("batchId", b.BatchID).
		Str("gridId", b.GridID).
		Int("applied", applied).
		Msg("batch applied")
	return nil
}
