package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/wxtools/zipcast/internal/cache"
	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/httpclient"
	"github.com/wxtools/zipcast/internal/model"
)

// Custom error types
var (
	ErrZipNotFound = errors.New("no coordinates found for zip code")
)

// CoordinateRepository resolves a ZIP code to geographic coordinates.
type CoordinateRepository interface {
	Resolve(ctx context.Context, zip string) (*model.ZipCoordinate, error)
}

// coordinateRepository implements CoordinateRepository
type coordinateRepository struct {
	store      cache.Store
	httpClient *httpclient.Client
	baseURL    string
}

// NewCoordinateRepository creates a new coordinate repository instance.
func NewCoordinateRepository(store cache.Store, client *httpclient.Client) CoordinateRepository {
	return &coordinateRepository{
		store:      store,
		httpClient: client,
		baseURL:    config.GetGeoAPIBaseURL(),
	}
}

// Resolve checks the cache first, then falls back to the geocoding API and
// caches the result. A cached ZIP never triggers an HTTP call.
func (r *coordinateRepository) Resolve(ctx context.Context, zip string) (*model.ZipCoordinate, error) {
	log := config.GetLogger()

	if coord, ok, err := r.store.Lookup(ctx, zip); err == nil && ok {
		log.Infow("Using cached coordinates", "zip", zip)
		return coord, nil
	} else if err != nil {
		// An unreadable cache is a miss; the geocoding API is the source of truth.
		log.Warnw("Cache lookup failed", "zip", zip, "error", err)
	}

	log.Infow("Resolving coordinates via geocoding API", "zip", zip)
	coord, err := r.fetchFromGeoAPI(ctx, zip)
	if err != nil {
		return nil, err
	}

	if err := r.store.Save(ctx, *coord); err != nil {
		return nil, fmt.Errorf("caching coordinates for %s: %w", zip, err)
	}

	return coord, nil
}

// fetchFromGeoAPI looks the ZIP up on the zippopotam-style geocoding API.
func (r *coordinateRepository) fetchFromGeoAPI(ctx context.Context, zip string) (*model.ZipCoordinate, error) {
	var geo model.ZippopotamResponse
	if err := r.httpClient.GetJSON(ctx, r.baseURL+"/"+zip, &geo); err != nil {
		return nil, fmt.Errorf("geocoding %s: %w", zip, err)
	}

	if len(geo.Places) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZipNotFound, zip)
	}

	lat, err := strconv.ParseFloat(geo.Places[0].Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude for %s: %w", zip, err)
	}
	lng, err := strconv.ParseFloat(geo.Places[0].Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude for %s: %w", zip, err)
	}

	return &model.ZipCoordinate{ZipCode: zip, Lat: lat, Lng: lng}, nil
}
