// Package ingest implements the workbook ingestion pipeline: column
// inference, row classification, date/amount normalization and the per-sheet
// orchestration that turns hand-maintained spreadsheets into property
// transaction records.
package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

// skipTerms mark summary and header rows that must never become records.
var skipTerms = []string{"total", "totals", "profit", "margin", "sum", "average", "header"}

var (
	slashDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)
	isoDateRe   = regexp.MustCompile(`^\d{2,4}-\d{1,2}-\d{1,2}$`)
)

// Spreadsheet serial dates count days from 1899-12-30 (day zero).
var epochDayZero = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial values outside this exclusive range are treated as plain numbers,
// not dates (roughly 1913..2036).
const (
	minDateSerial = 5000
	maxDateSerial = 50000
)

func containsSkipTerm(s string) bool {
	lower := strings.ToLower(s)
	for _, term := range skipTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// IsValidDate reports whether a cell holds a usable transaction date: a
// native date value, a D/M/Y or Y-M-D string that is not a summary label, or
// a number in the plausible spreadsheet serial range.
func IsValidDate(v sheet.Value) bool {
	switch v.Kind {
	case sheet.KindTime:
		return true
	case sheet.KindString:
		if containsSkipTerm(v.Str) {
			return false
		}
		return slashDateRe.MatchString(v.Str) || isoDateRe.MatchString(v.Str)
	case sheet.KindNumber:
		return v.Num > minDateSerial && v.Num < maxDateSerial
	default:
		return false
	}
}

// FormatDate normalizes a cell to a canonical calendar date. The second
// return is false when the cell holds no usable date; callers treat that as
// "skip this row", never as an error.
func FormatDate(v sheet.Value) (time.Time, bool) {
	if !IsValidDate(v) {
		return time.Time{}, false
	}

	switch v.Kind {
	case sheet.KindTime:
		t := v.Time
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	case sheet.KindString:
		if slashDateRe.MatchString(v.Str) {
			// Day-first with a two-digit year, matching the source data's
			// convention. US-style month-first strings will misparse; see
			// DESIGN.md.
			t, err := time.Parse("2/1/06", v.Str)
			if err != nil {
				return time.Time{}, false
			}
			return t, true
		}
		t, err := time.Parse("2006-1-2", v.Str)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case sheet.KindNumber:
		return epochDayZero.AddDate(0, 0, int(v.Num)), true
	default:
		return time.Time{}, false
	}
}

// EpochDays returns the spreadsheet serial day count for a date.
func EpochDays(t time.Time) int {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(epochDayZero).Hours() / 24)
}
