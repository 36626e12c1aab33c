package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gridfeed/pkg/grid"
	"gridfeed/viewer-service/internal/state"
)

func newTestServer(t *testing.T) (*Server, *state.Grid) {
	t.Helper()
	g := state.New(50, 25)
	return NewServer(g, zerolog.Nop()), g
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGridSnapshot(t *testing.T) {
	s, g := newTestServer(t)

	_, err := g.Apply(grid.Batch{
		BatchID:   "batch_1_x",
		GridID:    "user1_view1",
		EventType: grid.EventTypeCellUpdate,
		Changes:   []grid.Change{{Row: 4, Column: 9, Value: grid.StringValue("Updated_5555")}},
		Timestamp: 1,
	})
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodGet, "/grid")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap state.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.Equal(t, 50, snap.Rows)
	require.Equal(t, 25, snap.Columns)
	require.Equal(t, 1, snap.CellCount)
	require.Equal(t, 4, snap.Cells[0].Row)
	require.Equal(t, 9, snap.Cells[0].Column)
}

func TestGridMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/grid")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCellLookup(t *testing.T) {
	s, g := newTestServer(t)

	_, err := g.Apply(grid.Batch{
		BatchID:   "batch_2_y",
		GridID:    "g",
		EventType: grid.EventTypeCellUpdate,
		Changes:   []grid.Change{{Row: 7, Column: 3, Value: grid.IntegerValue(77)}},
		Timestamp: 1,
	})
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodGet, "/grid/cell?row=7&col=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var cell state.Cell
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cell))
	require.Equal(t, 7, cell.Row)
	require.Equal(t, 3, cell.Column)
	require.Equal(t, grid.KindInteger, cell.DataType)
}

func TestCellLookupErrors(t *testing.T) {
	s, _ := newTestServer(t)

	require.Equal(t, http.StatusBadRequest, doRequest(t, s, http.MethodGet, "/grid/cell?row=x&col=1").Code)
	require.Equal(t, http.StatusBadRequest, doRequest(t, s, http.MethodGet, "/grid/cell?row=1").Code)
	require.Equal(t, http.StatusNotFound, doRequest(t, s, http.MethodGet, "/grid/cell?row=1&col=1").Code)
}
