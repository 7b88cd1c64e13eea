package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/FACorreiaa/propintel/internal/domain/sheet"
)

// Locker serializes imports of the same workbook. A nil Locker means
// concurrent imports are the caller's problem.
type Locker interface {
	AcquireImportLock(ctx context.Context, key string) (release func(), err error)
}

// Summary aggregates the outcome of importing a whole workbook.
type Summary struct {
	ImportID        uuid.UUID
	SheetsProcessed int
	RecordsWritten  int
	RecordsSkipped  int
	RecordsFailed   int
}

// Importer iterates a workbook's sheets, isolating per-sheet failures so a
// broken tab never aborts the run.
type Importer struct {
	processor *Processor
	locker    Locker
	logger    *slog.Logger
}

// NewImporter creates a workbook importer.
func NewImporter(processor *Processor, logger *slog.Logger) *Importer {
	return &Importer{processor: processor, logger: logger}
}

// WithLocker enables advisory locking keyed by workbook identity.
func (i *Importer) WithLocker(locker Locker) *Importer {
	i.locker = locker
	return i
}

// ImportFile opens an XLSX workbook and imports every sheet. Only structural
// failures (missing file, unreadable workbook, lock acquisition) surface as
// errors; data-quality problems end up in the summary counts.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	wb, err := sheet.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if i.locker != nil {
		release, err := i.locker.AcquireImportLock(ctx, filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("failed to acquire import lock: %w", err)
		}
		defer release()
	}

	return i.ImportWorkbook(ctx, wb), nil
}

// ImportWorkbook processes sheets strictly in workbook order.
func (i *Importer) ImportWorkbook(ctx context.Context, wb sheet.Workbook) *Summary {
	summary := &Summary{ImportID: uuid.New()}
	sheets := wb.Sheets()

	i.logger.Info("starting workbook import", "import_id", summary.ImportID, "sheets", len(sheets))

	for _, s := range sheets {
		// Structurally empty tabs carry nothing worth inferring.
		if s.MaxRow() < 2 || s.MaxCol() < 2 {
			i.logger.Info("skipping empty sheet", "sheet", s.Title())
			continue
		}

		result, err := i.processSheetSafely(ctx, s)
		if err != nil {
			i.logger.Error("sheet failed, continuing with next", "sheet", s.Title(), "error", err)
			continue
		}

		summary.SheetsProcessed++
		summary.RecordsWritten += result.Written()
		summary.RecordsSkipped += result.Skipped
		summary.RecordsFailed += result.Failed
	}

	i.logger.Info("workbook import completed",
		"import_id", summary.ImportID,
		"sheets_processed", summary.SheetsProcessed,
		"records_written", summary.RecordsWritten,
		"records_skipped", summary.RecordsSkipped,
		"records_failed", summary.RecordsFailed,
	)

	return summary
}

// processSheetSafely converts a panicking sheet into a sheet-level error.
func (i *Importer) processSheetSafely(ctx context.Context, s sheet.Sheet) (result *SheetResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing sheet %s: %v", s.Title(), r)
		}
	}()
	return i.processor.ProcessSheet(ctx, s)
}
