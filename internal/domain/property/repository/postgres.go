package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPropertyRepository implements PropertyRepository using PostgreSQL
type PostgresPropertyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPropertyRepository creates a new PostgreSQL property repository
func NewPostgresPropertyRepository(pool *pgxpool.Pool) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{pool: pool}
}

// GetByAddress finds a property by case-insensitive address match
func (r *PostgresPropertyRepository) GetByAddress(ctx context.Context, address string) (*Property, error) {
	query := `
		SELECT property_id, property_name, address, latitude, longitude
		FROM propintel.properties
		WHERE LOWER(address) = LOWER($1)`

	property := &Property{}
	err := r.pool.QueryRow(ctx, query, address).Scan(
		&property.ID,
		&property.Name,
		&property.Address,
		&property.Latitude,
		&property.Longitude,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property by address: %w", err)
	}
	return property, nil
}

// Create inserts a new property
func (r *PostgresPropertyRepository) Create(ctx context.Context, property *Property) error {
	query := `
		INSERT INTO propintel.properties (property_name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING property_id`

	err := r.pool.QueryRow(ctx, query,
		property.Name,
		property.Address,
		property.Latitude,
		property.Longitude,
	).Scan(&property.ID)

	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}
