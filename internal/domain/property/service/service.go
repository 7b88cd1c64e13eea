// Package service resolves sheet addresses to property IDs, geocoding new
// properties exactly once.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/propintel/internal/domain/geocode"
	"github.com/FACorreiaa/propintel/internal/domain/property/repository"
)

// Config tunes address normalization and geocoding retries.
type Config struct {
	// DefaultCountry is appended to addresses that don't already mention it.
	DefaultCountry string
	// MaxAttempts bounds geocoding tries per new property.
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

// DefaultConfig matches the original import tool's retry policy.
func DefaultConfig() Config {
	return Config{
		DefaultCountry: "Australia",
		MaxAttempts:    3,
		RetryDelay:     time.Second,
	}
}

// Service finds-or-creates properties by normalized address.
type Service struct {
	repo     repository.PropertyRepository
	geocoder geocode.Client
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a property resolution service.
func NewService(repo repository.PropertyRepository, geocoder geocode.Client, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxAttempts == 0 {
		cfg = DefaultConfig()
	}
	return &Service{repo: repo, geocoder: geocoder, cfg: cfg, logger: logger}
}

// Resolve returns the property ID for an address, creating the property if
// it doesn't exist yet. Geocoding happens only on creation; an existing
// property is returned as-is even if its coordinates are null.
func (s *Service) Resolve(ctx context.Context, address string) (int64, error) {
	return s.ResolveNamed(ctx, address, "")
}

// ResolveNamed is Resolve with an explicit display name for new properties.
func (s *Service) ResolveNamed(ctx context.Context, address, name string) (int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, errors.New("property address is required")
	}

	existing, err := s.repo.GetByAddress(ctx, address)
	if err == nil {
		s.logger.Debug("found existing property", "property_id", existing.ID, "address", address)
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up property: %w", err)
	}

	if name == "" {
		name = "Property at " + address
	}

	property := &repository.Property{Name: name, Address: address}
	if loc := s.geocodeWithRetry(ctx, address); loc != nil {
		property.Latitude = &loc.Latitude
		property.Longitude = &loc.Longitude
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return 0, err
	}

	s.logger.Info("created property",
		"property_id", property.ID,
		"address", address,
		"geocoded", property.Latitude != nil,
	)
	return property.ID, nil
}

// geocodeWithRetry tries the geocoder up to MaxAttempts times with a fixed
// delay. Not-found and transient errors are both retryable misses;
// exhaustion returns nil so the property is created without coordinates.
func (s *Service) geocodeWithRetry(ctx context.Context, address string) *geocode.Location {
	query := address
	if !strings.Contains(strings.ToLower(query), strings.ToLower(s.cfg.DefaultCountry)) {
		query = query + ", " + s.cfg.DefaultCountry
	}

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		loc, err := s.geocoder.Geocode(ctx, query)
		if err == nil {
			s.logger.Info("geocoding succeeded", "address", query, "lat", loc.Latitude, "lon", loc.Longitude)
			return loc
		}
		s.logger.Warn("geocoding miss", "address", query, "attempt", attempt, "error", err)

		if attempt < s.cfg.MaxAttempts {
			select {
			case <-time.After(s.cfg.RetryDelay):
			case <-ctx.Done():
				return nil
			}
		}
	}

	return nil
}
