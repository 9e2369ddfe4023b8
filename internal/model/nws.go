package model

// NWSPointsResponse is the payload of GET /points/{lat},{lng} on
// api.weather.gov, reduced to the fields this tool reads.
type NWSPointsResponse struct {
	Properties struct {
		Forecast         string `json:"forecast"`
		RadarStation     string `json:"radarStation"`
		RelativeLocation struct {
			Properties struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"properties"`
		} `json:"relativeLocation"`
	} `json:"properties"`
}

// NWSForecastResponse is the payload of the forecast URL returned by the
// points endpoint.
type NWSForecastResponse struct {
	Properties struct {
		Periods []struct {
			Number           int    `json:"number"`
			Name             string `json:"name"`
			Temperature      int    `json:"temperature"`
			TemperatureUnit  string `json:"temperatureUnit"`
			ShortForecast    string `json:"shortForecast"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}
