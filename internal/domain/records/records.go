// Package records persists the three transaction record kinds (work, income,
// expense) with idempotent, identity-keyed upserts.
package records

import (
	"time"

	"github.com/FACorreiaa/propintel/pkg/money"
)

// Outcome reports what an upsert did.
type Outcome int

const (
	OutcomeInserted Outcome = iota + 1
	OutcomeUpdated
)

// WorkRecord is maintenance or improvement work performed at a property.
// Identity: (property, date, trimmed description).
type WorkRecord struct {
	ID            int64
	PropertyID    int64
	Description   string
	Date          time.Time
	Cost          *money.Money
	PaymentMethod *string
}

// IncomeRecord is money received for a property.
// Identity: (property, date, amount within tolerance).
type IncomeRecord struct {
	ID            int64
	PropertyID    int64
	Amount        *money.Money
	Date          time.Time
	Details       string
	PaymentMethod *string
}

// ExpenseRecord is money paid out for a property, stored as an unsigned
// magnitude. Identity: (property, date, amount within tolerance).
type ExpenseRecord struct {
	ID            int64
	PropertyID    int64
	Amount        *money.Money
	Date          time.Time
	Details       string
	PaymentMethod *string
}
