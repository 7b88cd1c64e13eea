package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

func TestExtractPropertyAddressAnchorCell(t *testing.T) {
	s := sheet.NewMemorySheet("Sheet1")
	s.Set(2, 2, "  42 Wallaby Way, Sydney  ")

	address, ok := ExtractPropertyAddress(s)

	require.True(t, ok)
	assert.Equal(t, "42 Wallaby Way, Sydney", address)
}

func TestExtractPropertyAddressRejectsSummaryAnchor(t *testing.T) {
	s := sheet.NewMemorySheet("Sheet1")
	s.Set(2, 2, "TOTAL 2024")
	s.Set(5, 1, "17 Beach Rd, Rosebud")

	address, ok := ExtractPropertyAddress(s)

	require.True(t, ok)
	assert.Equal(t, "17 Beach Rd, Rosebud", address)
}

func TestExtractPropertyAddressScansForStreetPattern(t *testing.T) {
	s := sheet.NewMemorySheet("Sheet1")
	s.Set(1, 1, "Financial summary")
	s.Set(6, 3, "8 Harbour Ave")

	address, ok := ExtractPropertyAddress(s)

	require.True(t, ok)
	assert.Equal(t, "8 Harbour Ave", address)
}

func TestExtractPropertyAddressFallsBackToTitle(t *testing.T) {
	s := sheet.NewMemorySheet("Rosebud House")

	address, ok := ExtractPropertyAddress(s)

	require.True(t, ok)
	assert.Equal(t, "Property: Rosebud House", address)
}

func TestExtractPropertyAddressIgnoresDefaultSheetNames(t *testing.T) {
	s := sheet.NewMemorySheet("Sheet3")

	_, ok := ExtractPropertyAddress(s)

	assert.False(t, ok)
}
