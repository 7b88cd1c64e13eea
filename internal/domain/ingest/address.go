package ingest

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

// Property addresses usually sit in a fixed anchor cell near the top of the
// sheet; failing that, any early cell that looks like a street address wins.
const (
	addressAnchorRow = 2
	addressAnchorCol = 2
	addressScanRows  = 10
	addressScanCols  = 5
)

var streetSuffixRe = regexp.MustCompile(`(?i)\d+\s+\w+\s+(St|Ave|Rd|Dr|Crt|Cres|Street|Avenue|Road)`)

// ExtractPropertyAddress discovers the property a sheet describes. The
// second return is false when no plausible address was found anywhere.
func ExtractPropertyAddress(s sheet.Sheet) (string, bool) {
	if v := s.Cell(addressAnchorRow, addressAnchorCol); !v.IsEmpty() {
		address := strings.TrimSpace(v.AsString())
		if address != "" && !strings.HasPrefix(address, "TOTAL") && !strings.EqualFold(address, "date") {
			return address, true
		}
	}

	for row := 1; row <= addressScanRows; row++ {
		for col := 1; col <= addressScanCols; col++ {
			v := s.Cell(row, col)
			if v.Kind != sheet.KindString {
				continue
			}
			address := strings.TrimSpace(v.Str)
			if streetSuffixRe.MatchString(address) {
				return address, true
			}
		}
	}

	// Hand-named tabs are usually the property; default "Sheet1" style names
	// are not.
	if title := s.Title(); !strings.HasPrefix(title, "Sheet") {
		return "Property: " + title, true
	}

	return "", false
}
