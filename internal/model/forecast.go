package model

// ZipCoordinate maps a US ZIP code to its geographic coordinates. Created on
// first successful geocode and cached; never updated.
type ZipCoordinate struct {
	ZipCode string  `json:"zip_code"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Location describes the place a forecast applies to, as reported by the NWS
// points endpoint.
type Location struct {
	City         string `json:"city"`
	State        string `json:"state"`
	RadarStation string `json:"radar_station"`
}

// ForecastPeriod is one named time window of the forecast, e.g. "Tonight" or
// "Monday". Periods arrive in chronological order, two per calendar day.
type ForecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperature_unit"`
	ShortForecast    string `json:"short_forecast"`
	DetailedForecast string `json:"detailed_forecast"`
}
