package synth

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridfeed/pkg/grid"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	return New(50, 25, WithRand(rand.New(rand.NewSource(1))))
}

func TestChangeRanges(t *testing.T) {
	s := newTestSynthesizer(t)

	for i := 0; i < 1000; i++ {
		c := s.Change()
		require.GreaterOrEqual(t, c.Row, 0)
		require.Less(t, c.Row, 50)
		require.GreaterOrEqual(t, c.Column, 0)
		require.Less(t, c.Column, 25)
		requireValueMatchesKind(t, c.Value)
	}
}

func requireValueMatchesKind(t *testing.T, v grid.CellValue) {
	t.Helper()
	switch v.Kind() {
	case grid.KindString:
		s, ok := v.AsString()
		require.True(t, ok)
		require.True(t, strings.HasPrefix(s, "Updated_"))
	case grid.KindNumber:
		f, ok := v.AsNumber()
		require.True(t, ok)
		require.GreaterOrEqual(t, f, 1.0)
		require.LessOrEqual(t, f, 1000.0)
	case grid.KindInteger:
		n, ok := v.AsInteger()
		require.True(t, ok)
		require.GreaterOrEqual(t, n, int64(1))
		require.LessOrEqual(t, n, int64(1000))
	case grid.KindBoolean:
		_, ok := v.AsBoolean()
		require.True(t, ok)
	case grid.KindTimestamp:
		ms, ok := v.AsTimestamp()
		require.True(t, ok)
		require.Positive(t, ms)
	default:
		t.Fatalf("unexpected kind %q", v.Kind())
	}
}

func TestForcedIntegerKind(t *testing.T) {
	s := newTestSynthesizer(t)

	for i := 0; i < 500; i++ {
		c := s.ChangeOf(grid.KindInteger)
		require.Equal(t, grid.KindInteger, c.Value.Kind())

		n, ok := c.Value.AsInteger()
		require.True(t, ok)
		require.GreaterOrEqual(t, n, int64(1))
		require.LessOrEqual(t, n, int64(1000))
	}
}

func TestBatchShape(t *testing.T) {
	s := newTestSynthesizer(t)

	b := s.Batch("user1_view1", 3)
	require.Equal(t, "user1_view1", b.GridID)
	require.Equal(t, grid.EventTypeCellUpdate, b.EventType)
	require.Len(t, b.Changes, 3)
	require.True(t, strings.HasPrefix(b.BatchID, "batch_"))
	require.Positive(t, b.Timestamp)
}

func TestBatchClampsCount(t *testing.T) {
	s := newTestSynthesizer(t)

	require.Len(t, s.Batch("g", 0).Changes, 1)
	require.Len(t, s.Batch("g", -4).Changes, 1)
}

func TestBatchTimestampsNonDecreasing(t *testing.T) {
	s := newTestSynthesizer(t)

	last := int64(0)
	for i := 0; i < 100; i++ {
		b := s.Batch("g", 1)
		require.GreaterOrEqual(t, b.Timestamp, last)
		last = b.Timestamp
	}
}

func TestBatchUsesInjectedClock(t *testing.T) {
	at := time.UnixMilli(1735689600000)
	s := New(50, 25,
		WithRand(rand.New(rand.NewSource(7))),
		WithClock(func() time.Time { return at }),
	)

	b := s.Batch("g", 1)
	require.Equal(t, at.UnixMilli(), b.Timestamp)
	require.True(t, strings.HasPrefix(b.BatchID, "batch_1735689600000_"))
}

func TestBatchIDsUnique(t *testing.T) {
	s := newTestSynthesizer(t)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		b := s.Batch("g", 1)
		_, dup := seen[b.BatchID]
		require.False(t, dup, "duplicate batch id %s", b.BatchID)
		seen[b.BatchID] = struct{}{}
	}
}
