package ingest

import "github.com/FACorreiaa/propintel/internal/domain/sheet"

// RowValues holds one value per semantic role, populated from a data row
// after column inference. Classification inspects only these mapped fields,
// never raw cell positions.
type RowValues struct {
	Date        sheet.Value
	Description sheet.Value
	Amount      sheet.Value
	Method      sheet.Value
}

// ShouldSkip reports whether a mapped row is a header or summary row rather
// than a real transaction.
func ShouldSkip(row RowValues) bool {
	if row.Date.Kind == sheet.KindString && containsSkipTerm(row.Date.Str) {
		return true
	}
	if row.Description.Kind == sheet.KindString && containsSkipTerm(row.Description.Str) {
		return true
	}
	return !IsValidDate(row.Date)
}
