package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

// panicSheet blows up on first access, standing in for a corrupt tab.
type panicSheet struct{}

func (panicSheet) Cell(row, col int) sheet.Value { panic("corrupt cell data") }
func (panicSheet) MaxRow() int                   { return 50 }
func (panicSheet) MaxCol() int                   { return 10 }
func (panicSheet) Title() string                 { return "corrupt" }

func TestImportWorkbookAggregatesSheets(t *testing.T) {
	first := workSheet()

	second := sheet.NewMemorySheet("Sheet2")
	second.Set(2, 2, "17 Beach Rd, Rosebud")
	second.SetRow(4, "Date", "Description", "Amount")
	second.SetRow(5, "2/3/24", "Mow lawns", 80.0)
	second.SetRow(6, "TOTAL", "Totals", 80.0)

	store := &fakeStore{}
	processor := NewProcessor(newFakeResolver(), store, DefaultConfig(), testLogger())
	importer := NewImporter(processor, testLogger())

	summary := importer.ImportWorkbook(context.Background(), sheet.NewMemoryWorkbook(first, second))

	assert.Equal(t, 2, summary.SheetsProcessed)
	assert.Equal(t, 2, summary.RecordsWritten)
	assert.Equal(t, 1, summary.RecordsSkipped)
	assert.Zero(t, summary.RecordsFailed)
	assert.NotZero(t, summary.ImportID)
	assert.Len(t, store.work, 2)
}

func TestImportWorkbookSkipsEmptySheets(t *testing.T) {
	empty := sheet.NewMemorySheet("Sheet2")
	empty.Set(1, 1, "x")

	processor := NewProcessor(newFakeResolver(), &fakeStore{}, DefaultConfig(), testLogger())
	importer := NewImporter(processor, testLogger())

	summary := importer.ImportWorkbook(context.Background(), sheet.NewMemoryWorkbook(empty))

	assert.Zero(t, summary.SheetsProcessed)
}

func TestImportWorkbookIsolatesPanickingSheet(t *testing.T) {
	store := &fakeStore{}
	processor := NewProcessor(newFakeResolver(), store, DefaultConfig(), testLogger())
	importer := NewImporter(processor, testLogger())

	wb := sheet.NewMemoryWorkbook(panicSheet{}, workSheet())
	summary := importer.ImportWorkbook(context.Background(), wb)

	// The corrupt tab is dropped; the good one still imports.
	assert.Equal(t, 1, summary.SheetsProcessed)
	assert.Equal(t, 1, summary.RecordsWritten)
	require.Len(t, store.work, 1)
}

func TestImportFileMissingWorkbook(t *testing.T) {
	processor := NewProcessor(newFakeResolver(), &fakeStore{}, DefaultConfig(), testLogger())
	importer := NewImporter(processor, testLogger())

	_, err := importer.ImportFile(context.Background(), "testdata/does-not-exist.xlsx")

	require.Error(t, err)
}
