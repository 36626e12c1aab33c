package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gridfeed/loadgen-service/internal/synth"
	"gridfeed/pkg/observability"
)

// Publisher is the broker session the runner drives. The runner owns it and
// closes it exactly once when Run returns.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

type Config struct {
	GridID      string
	MinChanges  int
	MaxChanges  int
	MinSleep    time.Duration
	MaxSleep    time.Duration
	MaxAttempts int
}

type Runner struct {
	pub       Publisher
	synth     *synth.Synthesizer
	cfg       Config
	logger    zerolog.Logger
	rng       *rand.Rand
	closeOnce sync.Once
}

func New(pub Publisher, s *synth.Synthesizer, cfg Config, logger zerolog.Logger) *Runner {
	if cfg.MinChanges < 1 {
		cfg.MinChanges = 1
	}
	if cfg.MaxChanges < cfg.MinChanges {
		cfg.MaxChanges = cfg.MinChanges
	}
	if cfg.MinSleep <= 0 {
		cfg.MinSleep = 500 * time.Millisecond
	}
	if cfg.MaxSleep < cfg.MinSleep {
		cfg.MaxSleep = cfg.MinSleep
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &Runner{
		pub:    pub,
		synth:  s,
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run publishes synthesized batches until the context is canceled. A
// canceled context is a clean stop and returns nil; a publish failure that
// survives all retry attempts is returned to the caller.
func (r *Runner) Run(ctx context.Context) error {
	defer r.close()

	seq := 0
	for {
		count := r.cfg.MinChanges
		if r.cfg.MaxChanges > r.cfg.MinChanges {
			count += r.rng.Intn(r.cfg.MaxChanges - r.cfg.MinChanges + 1)
		}
		batch := r.synth.Batch(r.cfg.GridID, count)

		payload, err := json.Marshal(batch)
		if err != nil {
			return fmt.Errorf("marshal batch %s: %w", batch.BatchID, err)
		}

		start := time.Now()
		if err := r.publish(ctx, batch.GridID, payload); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			observability.PublishErrors.Inc()
			return err
		}
		observability.PublishLatency.Observe(time.Since(start).Seconds())
		observability.PublishedBatches.Inc()
		observability.PublishedChanges.Add(float64(len(batch.Changes)))

		seq++
		r.logger.Info().
			Int("seq", seq).
			Str("batchId", batch.BatchID).
			Str("gridId", batch.GridID).
			Int("changes", len(batch.Changes)).
			Int64("timestamp", batch.Timestamp).
			Msg("published batch")

		if !r.sleep(ctx) {
			return nil
		}
	}
}

func (r *Runner) publish(ctx context.Context, key string, payload []byte) error {
	bo := newBackoff(100*time.Millisecond, 5*time.Second)

	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		lastErr = r.pub.Publish(ctx, key, payload)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}

		observability.PublishRetries.Inc()
		wait := bo.duration()
		r.logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("publish failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

func (r *Runner) sleep(ctx context.Context) bool {
	d := r.cfg.MinSleep
	if span := int64(r.cfg.MaxSleep - r.cfg.MinSleep); span > 0 {
		d += time.Duration(r.rng.Int63n(span + 1))
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (r *Runner) close() {
	r.closeOnce.Do(func() {
		if err := r.pub.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("closing publisher")
		}
	})
}
