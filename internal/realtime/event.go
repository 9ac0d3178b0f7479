package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedEvent = errors.New("malformed change event")

// Event is one inserted row as announced by the change feed.
type Event struct {
	Table string          `json:"table"`
	Row   json.RawMessage `json:"row"`

	fields map[string]any
}

func NewEvent(table string, row any) (Event, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return Event{}, err
	}
	return newEvent(table, b)
}

// DecodeEvent parses a row_inserted payload: {"table": "...", "row": {...}}.
func DecodeEvent(payload string) (Event, error) {
	var raw struct {
		Table string          `json:"table"`
		Row   json.RawMessage `json:"row"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return newEvent(raw.Table, raw.Row)
}

func newEvent(table string, row json.RawMessage) (Event, error) {
	table = strings.TrimSpace(table)
	if table == "" || len(row) == 0 {
		return Event{}, fmt.Errorf("%w: missing table or row", ErrMalformedEvent)
	}
	var fields map[string]any
	if err := json.Unmarshal(row, &fields); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return Event{Table: table, Row: row, fields: fields}, nil
}

// Field returns a column of the row as decoded from JSON.
func (e Event) Field(column string) (any, bool) {
	v, ok := e.fields[column]
	return v, ok
}

// Decode unmarshals the row into out.
func (e Event) Decode(out any) error {
	return json.Unmarshal(e.Row, out)
}

func (e Event) matches(f *Filter) bool {
	if f == nil {
		return true
	}
	v, ok := e.fields[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}
