package grid

import (
	"encoding/json"
	"fmt"

	"gridfeed/pkg/event"
)

// EventTypeCellUpdate is the only event type carried on the grid-updates topic.
const EventTypeCellUpdate = "CELL_UPDATE"

// Kind tags the shape of a cell value on the wire.
type Kind string

const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindInteger   Kind = "integer"
	KindBoolean   Kind = "boolean"
	KindTimestamp Kind = "timestamp"
)

// CellValue is a tagged union: the kind decides which of the payload fields
// is meaningful. Construct values through the typed constructors so the tag
// and the payload cannot drift apart.
type CellValue struct {
	kind Kind
	str  string
	num  float64
	i    int64
	b    bool
	ts   int64
}

func StringValue(s string) CellValue    { return CellValue{kind: KindString, str: s} }
func NumberValue(f float64) CellValue   { return CellValue{kind: KindNumber, num: f} }
func IntegerValue(n int64) CellValue    { return CellValue{kind: KindInteger, i: n} }
func BooleanValue(b bool) CellValue     { return CellValue{kind: KindBoolean, b: b} }
func TimestampValue(ms int64) CellValue { return CellValue{kind: KindTimestamp, ts: ms} }

func (v CellValue) Kind() Kind { return v.kind }

// Any returns the concrete value selected by the kind tag.
func (v CellValue) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindInteger:
		return v.i
	case KindBoolean:
		return v.b
	case KindTimestamp:
		return v.ts
	default:
		return nil
	}
}

func (v CellValue) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v CellValue) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v CellValue) AsInteger() (int64, bool) { return v.i, v.kind == KindInteger }

func (v CellValue) AsBoolean() (bool, bool) { return v.b, v.kind == KindBoolean }

func (v CellValue) AsTimestamp() (int64, bool) { return v.ts, v.kind == KindTimestamp }

// Change is a single cell update within a batch.
type Change struct {
	Row    int
	Column int
	Value  CellValue
}

type wireChange struct {
	Row      int             `json:"row"`
	Column   int             `json:"column"`
	NewValue json.RawMessage `json:"newValue"`
	DataType Kind            `json:"dataType"`
}

func (c Change) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(c.Value.Any())
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireChange{
		Row:      c.Row,
		Column:   c.Column,
		NewValue: raw,
		DataType: c.Value.Kind(),
	})
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var w wireChange
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var value CellValue
	switch w.DataType {
	case KindString:
		var s string
		if err := json.Unmarshal(w.NewValue, &s); err != nil {
			return fmt.Errorf("%w: string newValue: %v", event.ErrDecode, err)
		}
		value = StringValue(s)
	case KindNumber:
		var f float64
		if err := json.Unmarshal(w.NewValue, &f); err != nil {
			return fmt.Errorf("%w: number newValue: %v", event.ErrDecode, err)
		}
		value = NumberValue(f)
	case KindInteger:
		var n int64
		if err := json.Unmarshal(w.NewValue, &n); err != nil {
			return fmt.Errorf("%w: integer newValue: %v", event.ErrDecode, err)
		}
		value = IntegerValue(n)
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(w.NewValue, &b); err != nil {
			return fmt.Errorf("%w: boolean newValue: %v", event.ErrDecode, err)
		}
		value = BooleanValue(b)
	case KindTimestamp:
		var ms int64
		if err := json.Unmarshal(w.NewValue, &ms); err != nil {
			return fmt.Errorf("%w: timestamp newValue: %v", event.ErrDecode, err)
		}
		value = TimestampValue(ms)
	default:
		return fmt.Errorf("%w: unknown dataType %q", event.ErrDecode, w.DataType)
	}

	c.Row = w.Row
	c.Column = w.Column
	c.Value = value
	return nil
}

// Batch is one published message: an ordered set of cell changes for a grid.
type Batch struct {
	BatchID   string   `json:"batchId"`
	GridID    string   `json:"gridId"`
	EventType string   `json:"eventType"`
	Changes   []Change `json:"changes"`
	Timestamp int64    `json:"timestamp"`
}

// DecodeBatch parses a wire payload and checks the envelope fields.
func DecodeBatch(data []byte) (Batch, error) {
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return Batch{}, fmt.Errorf("%w: %v", event.ErrDecode, err)
	}
	if b.EventType != EventTypeCellUpdate {
		return Batch{}, fmt.Errorf("%w: unexpected eventType %q", event.ErrDecode, b.EventType)
	}
	if len(b.Changes) == 0 {
		return Batch{}, fmt.Errorf("%w: batch %s has no changes", event.ErrDecode, b.BatchID)
	}
	return b, nil
}
