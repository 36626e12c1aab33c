package state

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gridfeed/pkg/grid"
)

var ErrOutOfBounds = errors.New("cell coordinates out of bounds")

// Cell is the current value of one grid position.
type Cell struct {
	Row       int       `json:"row"`
	Column    int       `json:"column"`
	Value     any       `json:"value"`
	DataType  grid.Kind `json:"dataType"`
	Timestamp int64     `json:"timestamp"`
}

type coord struct {
	row, col int
}

// Grid holds the materialized state of one bounded grid. Safe for
// concurrent use: the consumer workers write, the HTTP handlers read.
type Grid struct {
	mu           sync.RWMutex
	rows         int
	columns      int
	cells        map[coord]Cell
	lastModified int64
	lastBatchID  string
}

func New(rows, columns int) *Grid {
	return &Grid{
		rows:    rows,
		columns: columns,
		cells:   make(map[coord]Cell),
	}
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Columns() int { return g.columns }

// Apply writes every in-bounds change of the batch into the grid. It
// reports how many changes were applied; an out-of-bounds change is skipped
// and surfaces as an ErrOutOfBounds error alongside the count.
func (g *Grid) Apply(b grid.Batch) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	applied := 0
	var err error
	for _, c := range b.Changes {
		if c.Row < 0 || c.Row >= g.rows || c.Column < 0 || c.Column >= g.columns {
			err = fmt.Errorf("%w: %d,%d", ErrOutOfBounds, c.Row, c.Column)
			continue
		}
		g.cells[coord{c.Row, c.Column}] = Cell{
			Row:       c.Row,
			Column:    c.Column,
			Value:     c.Value.Any(),
			DataType:  c.Value.Kind(),
			Timestamp: b.Timestamp,
		}
		applied++
	}

	if applied > 0 {
		g.lastModified = time.Now().UnixMilli()
		g.lastBatchID = b.BatchID
	}
	return applied, err
}

// Cell returns the current value at the given position.
func (g *Grid) Cell(row, col int) (Cell, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.cells[coord{row, col}]
	return c, ok
}

// Snapshot is a point-in-time copy of the grid for inspection endpoints.
type Snapshot struct {
	Rows         int    `json:"rows"`
	Columns      int    `json:"columns"`
	CellCount    int    `json:"cellCount"`
	LastBatchID  string `json:"lastBatchId,omitempty"`
	LastModified int64  `json:"lastModified"`
	Cells        []Cell `json:"cells"`
}

// Snapshot copies the populated cells, ordered by row then column.
func (g *Grid) Snapshot() Snapshot {
	g.mu.RLock()
	cells := make([]Cell, 0, len(g.cells))
	for _, c := range g.cells {
		cells = append(cells, c)
	}
	snap := Snapshot{
		Rows:         g.rows,
		Columns:      g.columns,
		CellCount:    len(cells),
		LastBatchID:  g.lastBatchID,
		LastModified: g.lastModified,
	}
	g.mu.RUnlock()

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Column < cells[j].Column
	})
	snap.Cells = cells
	return snap
}
