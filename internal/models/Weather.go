package models

import (
	"fmt"
	"strings"
)

// Weather is the current conditions for one city as shown to the user.
type Weather struct {
	LocationName         string  `json:"location_name" example:"Madrid"`
	TemperatureCelsius   float64 `json:"temperature_celsius" example:"15.2"`
	ConditionDescription string  `json:"condition_description" example:"cielo claro"`
	IconID               string  `json:"icon_id" example:"01d"`
	IconURL              string  `json:"icon_url,omitempty" example:"https://openweathermap.org/img/wn/01d@2x.png"`
}

// IconURLFor builds the provider's 2x icon image URL.
func IconURLFor(baseURL, iconID string) string {
	if baseURL == "" || iconID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s@2x.png", strings.TrimRight(baseURL, "/"), iconID)
}

func (w Weather) String() string {
	return fmt.Sprintf("%s: %.1f°C, %s", w.LocationName, w.TemperatureCelsius, w.ConditionDescription)
}
