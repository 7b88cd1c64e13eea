package sheet

import "time"

// MemorySheet is an in-memory Sheet used by tests and tooling.
type MemorySheet struct {
	title string
	cells map[[2]int]Value
	maxR  int
	maxC  int
}

// NewMemorySheet creates an empty in-memory sheet.
func NewMemorySheet(title string) *MemorySheet {
	return &MemorySheet{title: title, cells: make(map[[2]int]Value)}
}

// Set places a Go value at a 1-indexed cell position. Supported types are
// string, float64, int, bool, time.Time and Value; nil clears the cell.
func (s *MemorySheet) Set(row, col int, v any) *MemorySheet {
	var val Value
	switch x := v.(type) {
	case nil:
		delete(s.cells, [2]int{row, col})
		return s
	case Value:
		val = x
	case string:
		val = String(x)
	case float64:
		val = Number(x)
	case int:
		val = Number(float64(x))
	case bool:
		val = Bool(x)
	case time.Time:
		val = Time(x)
	default:
		panic("sheet: unsupported cell type")
	}

	s.cells[[2]int{row, col}] = val
	if row > s.maxR {
		s.maxR = row
	}
	if col > s.maxC {
		s.maxC = col
	}
	return s
}

// SetRow fills a row from column 1 with the given values.
func (s *MemorySheet) SetRow(row int, values ...any) *MemorySheet {
	for i, v := range values {
		if v == nil {
			continue
		}
		s.Set(row, i+1, v)
	}
	return s
}

func (s *MemorySheet) Cell(row, col int) Value {
	if v, ok := s.cells[[2]int{row, col}]; ok {
		return v
	}
	return Empty()
}

func (s *MemorySheet) MaxRow() int   { return s.maxR }
func (s *MemorySheet) MaxCol() int   { return s.maxC }
func (s *MemorySheet) Title() string { return s.title }

// MemoryWorkbook bundles in-memory sheets for importer tests.
type MemoryWorkbook struct {
	sheets []Sheet
}

// NewMemoryWorkbook creates a workbook over the given sheets.
func NewMemoryWorkbook(sheets ...Sheet) *MemoryWorkbook {
	return &MemoryWorkbook{sheets: sheets}
}

func (wb *MemoryWorkbook) Sheets() []Sheet { return wb.sheets }
func (wb *MemoryWorkbook) Close() error    { return nil }
