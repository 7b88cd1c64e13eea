package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/propintel/internal/domain/geocode"
	"github.com/FACorreiaa/propintel/internal/domain/property/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepo struct {
	byAddress map[string]*repository.Property
	nextID    int64
	err       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byAddress: make(map[string]*repository.Property), nextID: 1}
}

func (r *fakeRepo) GetByAddress(_ context.Context, address string) (*repository.Property, error) {
	if r.err != nil {
		return nil, r.err
	}
	if p, ok := r.byAddress[strings.ToLower(address)]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeRepo) Create(_ context.Context, property *repository.Property) error {
	property.ID = r.nextID
	r.nextID++
	r.byAddress[strings.ToLower(property.Address)] = property
	return nil
}

type fakeGeocoder struct {
	calls   int
	queries []string
	loc     *geocode.Location
	err     error
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (*geocode.Location, error) {
	g.calls++
	g.queries = append(g.queries, address)
	if g.err != nil {
		return nil, g.err
	}
	return g.loc, nil
}

func fastConfig() Config {
	return Config{DefaultCountry: "Australia", MaxAttempts: 3, RetryDelay: time.Millisecond}
}

func TestResolveCreatesAndGeocodesNewProperty(t *testing.T) {
	repo := newFakeRepo()
	geocoder := &fakeGeocoder{loc: &geocode.Location{Latitude: -37.8, Longitude: 144.9}}
	svc := NewService(repo, geocoder, fastConfig(), testLogger())

	id, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 1, geocoder.calls)

	created := repo.byAddress["42 wallaby way, sydney"]
	require.NotNil(t, created)
	assert.Equal(t, "Property at 42 Wallaby Way, Sydney", created.Name)
	require.NotNil(t, created.Latitude)
	assert.InDelta(t, -37.8, *created.Latitude, 1e-9)
}

func TestResolveAppendsDefaultCountry(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{}}
	svc := NewService(newFakeRepo(), geocoder, fastConfig(), testLogger())

	_, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")

	require.NoError(t, err)
	require.Len(t, geocoder.queries, 1)
	assert.Equal(t, "42 Wallaby Way, Sydney, Australia", geocoder.queries[0])
}

func TestResolveKeepsExistingCountry(t *testing.T) {
	geocoder := &fakeGeocoder{loc: &geocode.Location{}}
	svc := NewService(newFakeRepo(), geocoder, fastConfig(), testLogger())

	_, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney, australia")

	require.NoError(t, err)
	require.Len(t, geocoder.queries, 1)
	assert.Equal(t, "42 Wallaby Way, Sydney, australia", geocoder.queries[0])
}

func TestResolveReturnsExistingPropertyWithoutGeocoding(t *testing.T) {
	repo := newFakeRepo()
	geocoder := &fakeGeocoder{loc: &geocode.Location{}}
	svc := NewService(repo, geocoder, fastConfig(), testLogger())

	first, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")
	require.NoError(t, err)

	second, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, geocoder.calls, "an existing property is never re-geocoded")
}

func TestResolveCreatesWithoutCoordinatesWhenGeocodingExhausted(t *testing.T) {
	repo := newFakeRepo()
	geocoder := &fakeGeocoder{err: geocode.ErrNotFound}
	svc := NewService(repo, geocoder, fastConfig(), testLogger())

	id, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 3, geocoder.calls)

	created := repo.byAddress["42 wallaby way, sydney"]
	require.NotNil(t, created)
	assert.Nil(t, created.Latitude)
	assert.Nil(t, created.Longitude)
}

func TestResolveRequiresAddress(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeGeocoder{}, fastConfig(), testLogger())

	_, err := svc.Resolve(context.Background(), "   ")

	require.Error(t, err)
}

func TestResolvePropagatesRepositoryErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection reset")
	svc := NewService(repo, &fakeGeocoder{}, fastConfig(), testLogger())

	_, err := svc.Resolve(context.Background(), "42 Wallaby Way, Sydney")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestResolveNamedUsesExplicitName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeGeocoder{loc: &geocode.Location{}}, fastConfig(), testLogger())

	_, err := svc.ResolveNamed(context.Background(), "17 Beach Rd, Rosebud", "Beach House")

	require.NoError(t, err)
	assert.Equal(t, "Beach House", repo.byAddress["17 beach rd, rosebud"].Name)
}
