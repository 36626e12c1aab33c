package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gridfeed/pkg/event"
	"gridfeed/pkg/grid"
	"gridfeed/viewer-service/internal/state"
)

type fakeRecorder struct {
	batches []grid.Batch
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, b grid.Batch, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, b)
	return nil
}

func encodeBatch(t *testing.T, b grid.Batch) []byte {
	t.Helper()
	data, err := json.Marshal(b)
	require.NoError(t, err)
	return data
}

func TestHandleAppliesBatch(t *testing.T) {
	g := state.New(50, 25)
	rec := &fakeRecorder{}
	p := NewProcessor(g, rec, zerolog.Nop())

	b := grid.Batch{
		BatchID:   "batch_1_abc",
		GridID:    "user1_view1",
		EventType: grid.EventTypeCellUpdate,
		Changes:   []grid.Change{{Row: 2, Column: 3, Value: grid.IntegerValue(10)}},
		Timestamp: 1,
	}

	require.NoError(t, p.Handle(context.Background(), "user1_view1", encodeBatch(t, b)))

	c, ok := g.Cell(2, 3)
	require.True(t, ok)
	require.Equal(t, int64(10), c.Value)

	require.Len(t, rec.batches, 1)
	require.Equal(t, "batch_1_abc", rec.batches[0].BatchID)
}

func TestHandleWithoutRecorder(t *testing.T) {
	g := state.New(50, 25)
	p := NewProcessor(g, nil, zerolog.Nop())

	b := grid.Batch{
		BatchID:   "batch_2_def",
		GridID:    "g",
		EventType: grid.EventTypeCellUpdate,
		Changes:   []grid.Change{{Row: 0, Column: 0, Value: grid.BooleanValue(true)}},
		Timestamp: 1,
	}

	require.NoError(t, p.Handle(context.Background(), "g", encodeBatch(t, b)))
}

func TestHandleRejectsGarbage(t *testing.T) {
	p := NewProcessor(state.New(50, 25), nil, zerolog.Nop())

	err := p.Handle(context.Background(), "g", []byte("not json"))
	require.ErrorIs(t, err, event.ErrDecode)
}

func TestHandleSkipsOutOfBoundsChanges(t *testing.T) {
	g := state.New(50, 25)
	p := NewProcessor(g, nil, zerolog.Nop())

	b := grid.Batch{
		BatchID:   "batch_3_ghi",
		GridID:    "g",
		EventType: grid.EventTypeCellUpdate,
		Changes: []grid.Change{
			{Row: 99, Column: 0, Value: grid.IntegerValue(1)},
			{Row: 1, Column: 1, Value: grid.IntegerValue(2)},
		},
		Timestamp: 1,
	}

	// Bad coordinates are logged and skipped, not treated as a failure.
	require.NoError(t, p.Handle(context.Background(), "g", encodeBatch(t, b)))

	_, ok := g.Cell(99, 0)
	require.False(t, ok)
	_, ok = g.Cell(1, 1)
	require.True(t, ok)
}

func TestHandlePropagatesRecorderError(t *testing.T) {
	g := state.New(50, 25)
	rec := &fakeRecorder{err: errors.New("db down")}
	p := NewProcessor(g, rec, zerolog.Nop())

	b := grid.Batch{
		BatchID:   "batch_4_jkl",
		GridID:    "g",
		EventType: grid.EventTypeCellUpdate,
		Changes:   []grid.Change{{Row: 0, Column: 0, Value: grid.IntegerValue(1)}},
		Timestamp: 1,
	}

	err := p.Handle(context.Background(), "g", encodeBatch(t, b))
	require.Error(t, err)
	require.NotErrorIs(t, err, event.ErrDecode)
}
