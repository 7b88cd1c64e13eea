package ingest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

// Role is the inferred semantic meaning of a spreadsheet column.
type Role string

const (
	RoleDate        Role = "date"
	RoleAmount      Role = "amount"
	RoleDescription Role = "description"
	RoleMethod      Role = "method"
)

// ColumnMap maps 1-indexed column numbers to roles. It is rebuilt per sheet
// and never persisted.
type ColumnMap map[int]Role

// Columns returns the columns holding a role, in ascending column order.
func (m ColumnMap) Columns(role Role) []int {
	var cols []int
	for col, r := range m {
		if r == role {
			cols = append(cols, col)
		}
	}
	sort.Ints(cols)
	return cols
}

const (
	headerScanRows  = 10
	headerScanCols  = 15
	minHeaderCells  = 3
	minProbeSamples = 2
	longTextMinLen  = 20
)

// probeRows are the fixed data rows sampled when no header row qualifies.
var probeRows = []int{11, 15, 20, 25, 30}

// Header vocabularies. Detection decides whether a candidate row is a header
// at all; mapping assigns roles to its cells.
var (
	dateHeaders      = []string{"date", "work date", "money in date", "money out date"}
	amountHeaders    = []string{"amount", "cost", "work cost", "money in", "money out", "expense amount", "blue ladder"}
	amountMapHeaders = []string{"amount", "cost", "expense amount", "income amount", "money in", "money out", "blue ladder"}
	descMapHeaders   = []string{"item", "details", "description", "work description", "expense details", "income details"}
	methodHeaders    = []string{"method", "payment method", "payment"}
	methodCellValues = []string{"CASH", "CARD", "TRANSFER", "CHECK", "CHEQUE"}
	probeSlashDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`)
)

func inVocab(vocab []string, s string) bool {
	for _, v := range vocab {
		if s == v {
			return true
		}
	}
	return false
}

// InferColumns builds a column→role map for a sheet: header-first, then
// content-sampled fallback. The returned header row is 0 when no header row
// was found; an empty map means neither phase succeeded and the caller
// should use the default layout.
func InferColumns(s sheet.Sheet) (int, ColumnMap) {
	if headerRow, m := inferFromHeaders(s); len(m) > 0 {
		return headerRow, m
	}
	return inferFromContent(s)
}

type headerCell struct {
	col  int
	text string
}

func inferFromHeaders(s sheet.Sheet) (int, ColumnMap) {
	maxRow := min(headerScanRows, s.MaxRow())
	maxCol := min(headerScanCols, s.MaxCol())

	for row := 1; row <= maxRow; row++ {
		var candidates []headerCell
		for col := 1; col <= maxCol; col++ {
			v := s.Cell(row, col)
			if v.IsEmpty() {
				continue
			}
			candidates = append(candidates, headerCell{
				col:  col,
				text: strings.ToLower(strings.TrimSpace(v.AsString())),
			})
		}

		// A handful of labelled cells is what distinguishes a header row
		// from a stray title or note.
		if len(candidates) < minHeaderCells {
			continue
		}

		hasDate, hasAmount := false, false
		for _, c := range candidates {
			if inVocab(dateHeaders, c.text) {
				hasDate = true
			}
			if inVocab(amountHeaders, c.text) {
				hasAmount = true
			}
		}
		if !hasDate && !hasAmount {
			continue
		}

		m := make(ColumnMap)
		for _, c := range candidates {
			switch {
			case strings.Contains(c.text, "date"):
				m[c.col] = RoleDate
			case inVocab(amountMapHeaders, c.text):
				m[c.col] = RoleAmount
			case inVocab(descMapHeaders, c.text):
				m[c.col] = RoleDescription
			case inVocab(methodHeaders, c.text):
				m[c.col] = RoleMethod
			}
		}
		if len(m) > 0 {
			return row, m
		}
	}

	return 0, nil
}

// inferFromContent samples fixed probe rows and classifies columns by the
// shape of their values. Overlaps resolve by priority
// date > description > amount > method; a claimed column is not reassigned.
func inferFromContent(s sheet.Sheet) (int, ColumnMap) {
	maxCol := min(headerScanCols, s.MaxCol())

	dateCands := make(map[int]bool)
	amountCands := make(map[int]bool)
	descCands := make(map[int]bool)
	methodCands := make(map[int]bool)

	validSamples := 0
	for _, row := range probeRows {
		if row > s.MaxRow() {
			continue
		}
		validSamples++

		for col := 1; col <= maxCol; col++ {
			v := s.Cell(row, col)
			if v.IsEmpty() {
				continue
			}

			switch v.Kind {
			case sheet.KindTime:
				dateCands[col] = true
			case sheet.KindNumber:
				amountCands[col] = true
			case sheet.KindString:
				if probeSlashDateRe.MatchString(v.Str) {
					dateCands[col] = true
				}
				if inVocab(methodCellValues, strings.ToUpper(v.Str)) {
					methodCands[col] = true
				}
				if len(v.Str) > longTextMinLen {
					descCands[col] = true
				}
			}
		}
	}

	if validSamples < minProbeSamples {
		return 0, nil
	}

	m := make(ColumnMap)
	if len(dateCands) > 0 {
		m[minKey(dateCands)] = RoleDate
	}
	for col := range descCands {
		if _, claimed := m[col]; !claimed {
			m[col] = RoleDescription
		}
	}
	for col := range amountCands {
		if _, claimed := m[col]; !claimed {
			m[col] = RoleAmount
		}
	}
	for col := range methodCands {
		if _, claimed := m[col]; !claimed {
			m[col] = RoleMethod
		}
	}

	return 0, m
}

// DefaultColumnMap is the documented positional layout used when inference
// finds nothing: work fields on the left of the sheet, income on the right.
func DefaultColumnMap() (int, ColumnMap) {
	return 4, ColumnMap{
		2:  RoleDate,
		3:  RoleDescription,
		4:  RoleAmount,
		6:  RoleMethod,
		8:  RoleDate,
		9:  RoleAmount,
		10: RoleMethod,
	}
}

func minKey(set map[int]bool) int {
	first := true
	lowest := 0
	for k := range set {
		if first || k < lowest {
			lowest = k
			first = false
		}
	}
	return lowest
}
