// Package sheet abstracts workbook access for the ingestion pipeline.
// The importer never touches the underlying Excel library directly; it sees
// sheets as 1-indexed grids of scalar cell values.
package sheet

import (
	"strconv"
	"time"
)

// Kind identifies the scalar type held by a cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

// Value is a single cell's scalar content.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

// Empty returns an empty cell value.
func Empty() Value { return Value{Kind: KindEmpty} }

// String wraps a string cell value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number wraps a numeric cell value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool wraps a boolean cell value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Time wraps a native date/time cell value.
func Time(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// IsEmpty reports whether the cell has no content.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty || (v.Kind == KindString && v.Str == "")
}

// AsString renders the cell content as text.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// Sheet is a read-only accessor over one workbook tab. Rows and columns are
// 1-indexed to match spreadsheet conventions.
type Sheet interface {
	Cell(row, col int) Value
	MaxRow() int
	MaxCol() int
	Title() string
}

// Workbook exposes an ordered collection of sheets.
type Workbook interface {
	Sheets() []Sheet
	Close() error
}
