package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/propintel/internal/domain/records"
	"github.com/FACorreiaa/propintel/internal/domain/sheet"
	"github.com/FACorreiaa/propintel/pkg/money"
)

// PropertyResolver finds-or-creates a property by address.
type PropertyResolver interface {
	Resolve(ctx context.Context, address string) (int64, error)
}

// RecordStore upserts the three transaction record kinds.
type RecordStore interface {
	UpsertWork(ctx context.Context, rec records.WorkRecord) (records.Outcome, error)
	UpsertIncome(ctx context.Context, rec records.IncomeRecord) (records.Outcome, error)
	UpsertExpense(ctx context.Context, rec records.ExpenseRecord) (records.Outcome, error)
}

// Config tunes the per-sheet processing rules.
type Config struct {
	// WorkColumnMax is the last column index on the work/expense side of a
	// sheet. Amount columns beyond it hold income. The boundary comes from
	// the spreadsheet template the workbooks are based on.
	WorkColumnMax int
}

// DefaultConfig returns the processing rules for the standard template.
func DefaultConfig() Config {
	return Config{WorkColumnMax: 6}
}

// SheetResult summarizes processing one sheet.
type SheetResult struct {
	PropertyID int64
	Address    string
	Inserted   int
	Updated    int
	Skipped    int
	Failed     int
}

// Written is the number of records inserted or updated in place.
func (r *SheetResult) Written() int {
	return r.Inserted + r.Updated
}

// Processor turns one sheet into property transaction records.
type Processor struct {
	resolver PropertyResolver
	store    RecordStore
	cfg      Config
	logger   *slog.Logger
}

// NewProcessor creates a sheet processor.
func NewProcessor(resolver PropertyResolver, store RecordStore, cfg Config, logger *slog.Logger) *Processor {
	if cfg.WorkColumnMax == 0 {
		cfg = DefaultConfig()
	}
	return &Processor{resolver: resolver, store: store, cfg: cfg, logger: logger}
}

// ProcessSheet extracts the sheet's property, infers its columns and upserts
// every transaction row. Data-quality problems are counted, never fatal; the
// returned error indicates a sheet-level failure only.
func (p *Processor) ProcessSheet(ctx context.Context, s sheet.Sheet) (*SheetResult, error) {
	result := &SheetResult{}

	address, ok := ExtractPropertyAddress(s)
	if !ok {
		p.logger.Warn("no property address found, skipping sheet", "sheet", s.Title())
		return result, nil
	}
	result.Address = address

	propertyID, err := p.resolver.Resolve(ctx, address)
	if err != nil {
		return result, fmt.Errorf("failed to resolve property for %q: %w", address, err)
	}
	result.PropertyID = propertyID

	headerRow, columns := InferColumns(s)
	if len(columns) == 0 {
		p.logger.Warn("could not infer column structure, using default layout", "sheet", s.Title())
		headerRow, columns = DefaultColumnMap()
	}

	startRow := 2
	if headerRow > 0 {
		startRow = headerRow + 1
	}

	dateCols := columns.Columns(RoleDate)
	amountCols := columns.Columns(RoleAmount)
	descCols := columns.Columns(RoleDescription)
	methodCols := columns.Columns(RoleMethod)

	for row := startRow; row <= s.MaxRow(); row++ {
		if !p.rowHasData(s, row) {
			continue
		}

		values := RowValues{
			Date:        firstNonEmpty(s, row, dateCols),
			Amount:      firstNonEmpty(s, row, amountCols),
			Description: firstNonEmpty(s, row, descCols),
			Method:      firstNonEmpty(s, row, methodCols),
		}

		if ShouldSkip(values) {
			result.Skipped++
			continue
		}

		if values.Amount.IsEmpty() {
			result.Skipped++
			continue
		}

		amountCol := winningColumn(s, row, amountCols)
		amount, err := parseAmount(values.Amount)
		if err != nil {
			p.logger.Debug("unparseable amount", "sheet", s.Title(), "row", row, "error", err)
			result.Skipped++
			continue
		}

		date, ok := FormatDate(values.Date)
		if !ok {
			result.Skipped++
			continue
		}

		description := values.Description.AsString()
		if description == "" {
			description = fmt.Sprintf("Transaction on %s", date.Format("2006-01-02"))
		}

		var method *string
		if !values.Method.IsEmpty() {
			m := values.Method.AsString()
			method = &m
		}

		var outcome records.Outcome
		switch {
		case amountCol <= p.cfg.WorkColumnMax && !amount.IsNegative():
			outcome, err = p.store.UpsertWork(ctx, records.WorkRecord{
				PropertyID:    propertyID,
				Description:   description,
				Date:          date,
				Cost:          amount,
				PaymentMethod: method,
			})
		case amountCol <= p.cfg.WorkColumnMax:
			outcome, err = p.store.UpsertExpense(ctx, records.ExpenseRecord{
				PropertyID:    propertyID,
				Amount:        amount.Abs(),
				Date:          date,
				Details:       description,
				PaymentMethod: method,
			})
		default:
			outcome, err = p.store.UpsertIncome(ctx, records.IncomeRecord{
				PropertyID:    propertyID,
				Amount:        amount,
				Date:          date,
				Details:       description,
				PaymentMethod: method,
			})
		}

		if err != nil {
			p.logger.Warn("failed to write record", "sheet", s.Title(), "row", row, "error", err)
			result.Failed++
			continue
		}

		if outcome == records.OutcomeUpdated {
			result.Updated++
		} else {
			result.Inserted++
		}
	}

	p.logger.Info("processed sheet",
		"sheet", s.Title(),
		"address", address,
		"written", result.Written(),
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

// rowHasData checks the first 15 columns for any content before the row is
// mapped; rows of pure formatting are common in hand-maintained sheets.
func (p *Processor) rowHasData(s sheet.Sheet, row int) bool {
	maxCol := min(headerScanCols, s.MaxCol())
	for col := 1; col <= maxCol; col++ {
		if !s.Cell(row, col).IsEmpty() {
			return true
		}
	}
	return false
}

// firstNonEmpty picks the first populated cell among a role's columns, in
// column order.
func firstNonEmpty(s sheet.Sheet, row int, cols []int) sheet.Value {
	for _, col := range cols {
		if v := s.Cell(row, col); !v.IsEmpty() {
			return v
		}
	}
	return sheet.Empty()
}

// winningColumn returns the physical column that supplied the row's amount.
func winningColumn(s sheet.Sheet, row int, cols []int) int {
	for _, col := range cols {
		if !s.Cell(row, col).IsEmpty() {
			return col
		}
	}
	return 0
}

func parseAmount(v sheet.Value) (*money.Money, error) {
	switch v.Kind {
	case sheet.KindNumber:
		return money.NewFromFloat(v.Num), nil
	case sheet.KindString:
		return money.NewFromString(v.Str)
	default:
		return nil, fmt.Errorf("cell is not an amount")
	}
}
