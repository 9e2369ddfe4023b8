package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wxtools/zipcast/internal/model"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		name          string
		shortForecast string
		want          string
	}{
		{"Sunny", "Sunny", "☀️"},
		{"Mostly clear", "Mostly Clear", "🌙"},
		{"Partly cloudy", "Partly Cloudy", "☁️"},
		{"Light rain", "Light Rain", "🌧️"},
		{"Thunderstorms", "Scattered Showers And Thunderstorms", "⛈️"},
		{"T-storm shorthand", "Chance T-storms", "⛈️"},
		{"Snow", "Heavy Snow", "❄️"},
		{"Fog", "Patchy Fog", "🌫️"},
		{"No keyword", "Haze", "❓"},
		{"Case insensitive", "SUNNY", "☀️"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Icon(tt.shortForecast); got != tt.want {
				t.Errorf("Expected icon %s for %q, got %s", tt.want, tt.shortForecast, got)
			}
		})
	}
}

func TestIcon_OrderSensitive(t *testing.T) {
	// Rain precedes snow in the table, so a mixed forecast classifies as rain.
	if got := Icon("Rain And Snow"); got != "🌧️" {
		t.Errorf("Expected rain icon for mixed forecast, got %s", got)
	}
	// Sunny precedes cloudy.
	if got := Icon("Mostly Sunny then Partly Cloudy"); got != "☀️" {
		t.Errorf("Expected sunny icon for mixed forecast, got %s", got)
	}
}

func testLocation() model.Location {
	return model.Location{City: "Beverly Hills", State: "CA", RadarStation: "KVTX"}
}

func testPeriods() []model.ForecastPeriod {
	return []model.ForecastPeriod{
		{Name: "Tonight", Temperature: 61, TemperatureUnit: "F",
			ShortForecast: "Mostly Clear", DetailedForecast: "Mostly clear, with a low around 61."},
		{Name: "Monday", Temperature: 78, TemperatureUnit: "F",
			ShortForecast: "Sunny", DetailedForecast: "Sunny, with a high near 78."},
		{Name: "Monday Night", Temperature: 60, TemperatureUnit: "F",
			ShortForecast: "Partly Cloudy", DetailedForecast: "Partly cloudy, with a low around 60."},
	}
}

func TestRender_PlainText(t *testing.T) {
	out := Render(testLocation(), testPeriods(), 2, false)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3, "Expected header plus two period blocks")
	assert.Equal(t, "Weather forecast for Beverly Hills, CA (KVTX):", lines[0])
	assert.Equal(t, "Tonight: 🌙 Mostly clear, with a low around 61.", lines[1])
	assert.Equal(t, "Monday: ☀️ Sunny, with a high near 78.", lines[2])
}

func TestRender_Markdown(t *testing.T) {
	out := Render(testLocation(), testPeriods(), 1, true)

	assert.Contains(t, out, "**Tonight:** 🌙 Mostly clear, with a low around 61.")
	assert.NotContains(t, out, "Monday")
}

func TestRender_LimitBeyondPeriods(t *testing.T) {
	out := Render(testLocation(), testPeriods(), 20, false)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4, "Expected header plus all three periods")
}
