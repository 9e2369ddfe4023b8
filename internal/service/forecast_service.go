package service

import (
	"context"

	"github.com/wxtools/zipcast/internal/render"
	"github.com/wxtools/zipcast/internal/repository"
)

// ForecastService runs the resolve → fetch → render pipeline.
type ForecastService struct {
	CoordRepo    repository.CoordinateRepository
	ForecastRepo repository.ForecastRepository
}

func NewForecastService(coordRepo repository.CoordinateRepository, forecastRepo repository.ForecastRepository) *ForecastService {
	return &ForecastService{
		CoordRepo:    coordRepo,
		ForecastRepo: forecastRepo,
	}
}

// Forecast resolves the ZIP to coordinates, fetches the live forecast, and
// returns the rendered text limited to the first limit periods.
func (s *ForecastService) Forecast(ctx context.Context, zip string, limit int, markdown bool) (string, error) {
	coord, err := s.CoordRepo.Resolve(ctx, zip)
	if err != nil {
		return "", err
	}

	location, periods, err := s.ForecastRepo.Fetch(ctx, *coord)
	if err != nil {
		return "", err
	}

	return render.Render(*location, periods, limit, markdown), nil
}
