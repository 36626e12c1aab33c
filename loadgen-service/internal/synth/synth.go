package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"gridfeed/pkg/grid"
)

var kinds = []grid.Kind{
	grid.KindString,
	grid.KindNumber,
	grid.KindInteger,
	grid.KindBoolean,
	grid.KindTimestamp,
}

// Synthesizer produces randomized update batches for a bounded grid.
// It is not safe for concurrent use; the publish loop owns it.
type Synthesizer struct {
	rows    int
	columns int
	rng     *rand.Rand
	now     func() time.Time
}

type Option func(*Synthesizer)

// WithRand replaces the time-seeded source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Synthesizer) { s.rng = rng }
}

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

func New(rows, columns int, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rows:    rows,
		columns: columns,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Change synthesizes one cell update with a randomly picked value kind.
func (s *Synthesizer) Change() grid.Change {
	return s.ChangeOf(kinds[s.rng.Intn(len(kinds))])
}

// ChangeOf synthesizes one cell update with the given value kind.
func (s *Synthesizer) ChangeOf(kind grid.Kind) grid.Change {
	var value grid.CellValue
	switch kind {
	case grid.KindString:
		value = grid.StringValue(fmt.Sprintf("Updated_%d", 1000+s.rng.Intn(9000)))
	case grid.KindNumber:
		value = grid.NumberValue(math.Round((1.0+s.rng.Float64()*999.0)*100) / 100)
	case grid.KindInteger:
		value = grid.IntegerValue(int64(1 + s.rng.Intn(1000)))
	case grid.KindBoolean:
		value = grid.BooleanValue(s.rng.Intn(2) == 0)
	default:
		value = grid.TimestampValue(s.now().UnixMilli())
	}

	return grid.Change{
		Row:    s.rng.Intn(s.rows),
		Column: s.rng.Intn(s.columns),
		Value:  value,
	}
}

// Batch synthesizes count changes under a fresh batch id. Count is clamped
// to at least one change.
func (s *Synthesizer) Batch(gridID string, count int) grid.Batch {
	if count < 1 {
		count = 1
	}

	changes := make([]grid.Change, count)
	for i := range changes {
		changes[i] = s.Change()
	}

	now := s.now().UnixMilli()
	return grid.Batch{
		BatchID:   fmt.Sprintf("batch_%d_%s", now, uuid.NewString()[:8]),
		GridID:    gridID,
		EventType: grid.EventTypeCellUpdate,
		Changes:   changes,
		Timestamp: now,
	}
}
