// Package repository persists properties keyed by normalized address.
package repository

import "context"

// Property is a physical property referenced by workbook sheets. Coordinates
// are nil when geocoding failed at creation time; they are never retried.
type Property struct {
	ID        int64
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// PropertyRepository looks up and creates properties.
type PropertyRepository interface {
	// GetByAddress finds a property by case-insensitive address match.
	// Returns sql.ErrNoRows when no property exists for the address.
	GetByAddress(ctx context.Context, address string) (*Property, error)
	// Create inserts a new property and fills in its generated ID.
	Create(ctx context.Context, property *Property) error
}
