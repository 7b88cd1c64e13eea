package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Capabilities records which optional columns exist in the target schema.
// Older schemas created before the payment_method migration are tolerated by
// omitting the column from writes. Resolved once per import run.
type Capabilities struct {
	WorkPaymentMethod    bool
	IncomePaymentMethod  bool
	ExpensePaymentMethod bool
}

// DetectCapabilities probes information_schema for the optional columns.
func DetectCapabilities(ctx context.Context, db DB) (Capabilities, error) {
	query := `
		SELECT table_name
		FROM information_schema.columns
		WHERE table_schema = 'propintel'
		AND table_name IN ('work', 'money_in', 'money_out')
		AND column_name = 'payment_method'`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return Capabilities{}, fmt.Errorf("failed to probe schema capabilities: %w", err)
	}
	defer rows.Close()

	var caps Capabilities
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return Capabilities{}, fmt.Errorf("failed to scan capability row: %w", err)
		}
		switch table {
		case "work":
			caps.WorkPaymentMethod = true
		case "money_in":
			caps.IncomePaymentMethod = true
		case "money_out":
			caps.ExpensePaymentMethod = true
		}
	}
	return caps, rows.Err()
}

// PostgresRecordStore implements the three-kind upsert against PostgreSQL.
// Every upsert runs in its own transaction; a failed record rolls back alone
// and never aborts the sheet.
type PostgresRecordStore struct {
	db     DB
	caps   Capabilities
	logger *slog.Logger
}

// NewPostgresRecordStore creates a record store with pre-resolved schema
// capabilities.
func NewPostgresRecordStore(db DB, caps Capabilities, logger *slog.Logger) *PostgresRecordStore {
	return &PostgresRecordStore{db: db, caps: caps, logger: logger}
}

func validate(propertyID int64, hasAmount bool, rec any) error {
	if propertyID == 0 {
		return fmt.Errorf("record %T requires a property", rec)
	}
	if !hasAmount {
		return fmt.Errorf("record %T requires an amount", rec)
	}
	return nil
}

// UpsertWork inserts a work record or refreshes an existing one matched by
// (property, date, trimmed description).
func (s *PostgresRecordStore) UpsertWork(ctx context.Context, rec WorkRecord) (Outcome, error) {
	if err := validate(rec.PropertyID, rec.Cost != nil, rec); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var workID int64
	err = tx.QueryRow(ctx, `
		SELECT work_id
		FROM propintel.work
		WHERE property_id = $1
		AND work_date = $2
		AND TRIM(work_description) = TRIM($3)`,
		rec.PropertyID, rec.Date, rec.Description,
	).Scan(&workID)

	switch {
	case err == nil:
		if s.caps.WorkPaymentMethod {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.work
				SET work_cost = $1, payment_method = $2
				WHERE work_id = $3`,
				rec.Cost.ToDecimal(), rec.PaymentMethod, workID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.work
				SET work_cost = $1
				WHERE work_id = $2`,
				rec.Cost.ToDecimal(), workID)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update work record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit work update: %w", err)
		}
		s.logger.Debug("updated work record", "work_id", workID, "property_id", rec.PropertyID)
		return OutcomeUpdated, nil

	case errors.Is(err, pgx.ErrNoRows):
		if s.caps.WorkPaymentMethod {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.work (property_id, work_description, work_date, work_cost, payment_method)
				VALUES ($1, $2, $3, $4, $5)`,
				rec.PropertyID, rec.Description, rec.Date, rec.Cost.ToDecimal(), rec.PaymentMethod)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.work (property_id, work_description, work_date, work_cost)
				VALUES ($1, $2, $3, $4)`,
				rec.PropertyID, rec.Description, rec.Date, rec.Cost.ToDecimal())
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert work record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit work insert: %w", err)
		}
		return OutcomeInserted, nil

	default:
		return 0, fmt.Errorf("failed to match work record: %w", err)
	}
}

// UpsertIncome inserts an income record or refreshes an existing one matched
// by (property, date, amount within tolerance).
func (s *PostgresRecordStore) UpsertIncome(ctx context.Context, rec IncomeRecord) (Outcome, error) {
	if err := validate(rec.PropertyID, rec.Amount != nil, rec); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var incomeID int64
	err = tx.QueryRow(ctx, `
		SELECT money_in_id
		FROM propintel.money_in
		WHERE property_id = $1
		AND income_date = $2
		AND ABS(income_amount - $3) < 0.01`,
		rec.PropertyID, rec.Date, rec.Amount.ToDecimal(),
	).Scan(&incomeID)

	switch {
	case err == nil:
		if s.caps.IncomePaymentMethod {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.money_in
				SET income_details = $1, payment_method = $2
				WHERE money_in_id = $3`,
				rec.Details, rec.PaymentMethod, incomeID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.money_in
				SET income_details = $1
				WHERE money_in_id = $2`,
				rec.Details, incomeID)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update income record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit income update: %w", err)
		}
		s.logger.Debug("updated income record", "money_in_id", incomeID, "property_id", rec.PropertyID)
		return OutcomeUpdated, nil

	case errors.Is(err, pgx.ErrNoRows):
		if s.caps.IncomePaymentMethod {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.money_in (property_id, income_amount, income_date, income_details, payment_method)
				VALUES ($1, $2, $3, $4, $5)`,
				rec.PropertyID, rec.Amount.ToDecimal(), rec.Date, rec.Details, rec.PaymentMethod)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.money_in (property_id, income_amount, income_date, income_details)
				VALUES ($1, $2, $3, $4)`,
				rec.PropertyID, rec.Amount.ToDecimal(), rec.Date, rec.Details)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert income record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit income insert: %w", err)
		}
		return OutcomeInserted, nil

	default:
		return 0, fmt.Errorf("failed to match income record: %w", err)
	}
}

// UpsertExpense inserts an expense record or refreshes an existing one
// matched by (property, date, amount within tolerance). Amounts are stored
// as unsigned magnitudes.
func (s *PostgresRecordStore) UpsertExpense(ctx context.Context, rec ExpenseRecord) (Outcome, error) {
	if err := validate(rec.PropertyID, rec.Amount != nil, rec); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var expenseID int64
	err = tx.QueryRow(ctx, `
		SELECT money_out_id
		FROM propintel.money_out
		WHERE property_id = $1
		AND expense_date = $2
		AND ABS(expense_amount - $3) < 0.01`,
		rec.PropertyID, rec.Date, rec.Amount.ToDecimal(),
	).Scan(&expenseID)

	switch {
	case err == nil:
		if s.caps.ExpensePaymentMethod {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.money_out
				SET expense_details = $1, payment_method = $2
				WHERE money_out_id = $3`,
				rec.Details, rec.PaymentMethod, expenseID)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE propintel.money_out
				SET expense_details = $1
				WHERE money_out_id = $2`,
				rec.Details, expenseID)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to update expense record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit expense update: %w", err)
		}
		s.logger.Debug("updated expense record", "money_out_id", expenseID, "property_id", rec.PropertyID)
		return OutcomeUpdated, nil

	case errors.Is(err, pgx.ErrNoRows):
		if s.caps.ExpensePaymentMethod {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.money_out (property_id, expense_amount, expense_date, expense_details, payment_method)
				VALUES ($1, $2, $3, $4, $5)`,
				rec.PropertyID, rec.Amount.ToDecimal(), rec.Date, rec.Details, rec.PaymentMethod)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO propintel.money_out (property_id, expense_amount, expense_date, expense_details)
				VALUES ($1, $2, $3, $4)`,
				rec.PropertyID, rec.Amount.ToDecimal(), rec.Date, rec.Details)
		}
		if err != nil {
			return 0, fmt.Errorf("failed to insert expense record: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("failed to commit expense insert: %w", err)
		}
		return OutcomeInserted, nil

	default:
		return 0, fmt.Errorf("failed to match expense record: %w", err)
	}
}
