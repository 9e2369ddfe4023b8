package render

import (
	"fmt"
	"strings"

	"github.com/wxtools/zipcast/internal/model"
)

// iconRule maps forecast keywords to an icon. Order matters: the first rule
// whose keyword appears in the short forecast wins, so "Rain And Snow" renders
// as rain.
type iconRule struct {
	keywords []string
	icon     string
}

var iconTable = []iconRule{
	{keywords: []string{"sunny"}, icon: "☀️"},
	{keywords: []string{"clear"}, icon: "🌙"},
	{keywords: []string{"cloudy"}, icon: "☁️"},
	{keywords: []string{"rain"}, icon: "🌧️"},
	{keywords: []string{"thunder", "t-storm"}, icon: "⛈️"},
	{keywords: []string{"snow"}, icon: "❄️"},
	{keywords: []string{"fog"}, icon: "🌫️"},
}

const unknownIcon = "❓"

// Icon classifies a short forecast into a weather icon by first matching
// keyword.
func Icon(shortForecast string) string {
	lower := strings.ToLower(shortForecast)
	for _, rule := range iconTable {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.icon
			}
		}
	}
	return unknownIcon
}

// Render formats the leading limit periods as a header plus one block per
// period, in plain text or lightweight markdown.
func Render(loc model.Location, periods []model.ForecastPeriod, limit int, markdown bool) string {
	if limit > len(periods) {
		limit = len(periods)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s, %s (%s):\n", loc.City, loc.State, loc.RadarStation)

	for _, p := range periods[:limit] {
		if markdown {
			fmt.Fprintf(&b, "**%s:** %s %s\n", p.Name, Icon(p.ShortForecast), p.DetailedForecast)
		} else {
			fmt.Fprintf(&b, "%s: %s %s\n", p.Name, Icon(p.ShortForecast), p.DetailedForecast)
		}
	}

	return b.String()
}
