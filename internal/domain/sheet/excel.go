package sheet

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelWorkbook adapts an XLSX file to the Workbook interface.
type ExcelWorkbook struct {
	f      *excelize.File
	sheets []Sheet
}

// OpenWorkbook opens an XLSX file. Raw cell values are requested so that
// date cells surface as their spreadsheet serial numbers, which the date
// normalizer understands.
func OpenWorkbook(path string) (*ExcelWorkbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("workbook not found: %w", err)
	}

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	wb := &ExcelWorkbook{f: f}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		wb.sheets = append(wb.sheets, newGridSheet(name, rows))
	}

	return wb, nil
}

// Sheets returns the workbook's sheets in workbook order.
func (wb *ExcelWorkbook) Sheets() []Sheet {
	return wb.sheets
}

// Close releases the underlying file.
func (wb *ExcelWorkbook) Close() error {
	return wb.f.Close()
}

// gridSheet holds a fully materialized sheet grid.
type gridSheet struct {
	title  string
	cells  [][]Value
	maxCol int
}

func newGridSheet(title string, rows [][]string) *gridSheet {
	s := &gridSheet{title: title}
	for _, row := range rows {
		cells := make([]Value, len(row))
		for i, raw := range row {
			cells[i] = cellValue(raw)
		}
		if len(cells) > s.maxCol {
			s.maxCol = len(cells)
		}
		s.cells = append(s.cells, cells)
	}
	return s
}

// cellValue converts a raw excelize cell string into a typed Value. Numeric
// cells (including date serials) parse as numbers; everything else is text.
func cellValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(f)
	}
	return String(raw)
}

func (s *gridSheet) Cell(row, col int) Value {
	if row < 1 || row > len(s.cells) {
		return Empty()
	}
	r := s.cells[row-1]
	if col < 1 || col > len(r) {
		return Empty()
	}
	return r[col-1]
}

func (s *gridSheet) MaxRow() int   { return len(s.cells) }
func (s *gridSheet) MaxCol() int   { return s.maxCol }
func (s *gridSheet) Title() string { return s.title }
