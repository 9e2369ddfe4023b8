package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wxtools/zipcast/internal/config"
	"github.com/wxtools/zipcast/internal/httpclient"
	"github.com/wxtools/zipcast/internal/model"
)

var (
	ErrNoForecastURL = errors.New("points response carried no forecast URL")
	ErrNoPeriods     = errors.New("forecast response carried no periods")
)

// ForecastRepository fetches the forecast for a coordinate from the NWS API.
type ForecastRepository interface {
	Fetch(ctx context.Context, coord model.ZipCoordinate) (*model.Location, []model.ForecastPeriod, error)
}

// forecastRepository implements ForecastRepository
type forecastRepository struct {
	httpClient *httpclient.Client
	baseURL    string
}

// NewForecastRepository creates a new forecast repository instance.
func NewForecastRepository(client *httpclient.Client) ForecastRepository {
	return &forecastRepository{
		httpClient: client,
		baseURL:    config.GetNWSAPIBaseURL(),
	}
}

// Fetch makes the two dependent NWS calls: the points lookup that names the
// location and its forecast URL, then the forecast itself. Forecast data is
// always fetched live.
func (r *forecastRepository) Fetch(ctx context.Context, coord model.ZipCoordinate) (*model.Location, []model.ForecastPeriod, error) {
	pointsURL := fmt.Sprintf("%s/points/%g,%g", r.baseURL, coord.Lat, coord.Lng)

	var points model.NWSPointsResponse
	if err := r.httpClient.GetJSON(ctx, pointsURL, &points); err != nil {
		return nil, nil, fmt.Errorf("looking up NWS point: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, nil, ErrNoForecastURL
	}

	location := &model.Location{
		City:         points.Properties.RelativeLocation.Properties.City,
		State:        points.Properties.RelativeLocation.Properties.State,
		RadarStation: points.Properties.RadarStation,
	}

	var forecast model.NWSForecastResponse
	if err := r.httpClient.GetJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return nil, nil, fmt.Errorf("fetching NWS forecast: %w", err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return nil, nil, ErrNoPeriods
	}

	periods := make([]model.ForecastPeriod, 0, len(forecast.Properties.Periods))
	for _, p := range forecast.Properties.Periods {
		periods = append(periods, model.ForecastPeriod{
			Name:             p.Name,
			Temperature:      p.Temperature,
			TemperatureUnit:  p.TemperatureUnit,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
		})
	}

	return location, periods, nil
}
