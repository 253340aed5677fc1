package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"weather-lookup/internal/models"
	"weather-lookup/pkg/logger"
)

const (
	OpenMeteoBaseURL          = "https://api.open-meteo.com/v1/forecast"
	OpenMeteoGeocodingBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
)

type OpenMeteoOptions struct {
	BaseURL      string
	GeocodingURL string
	Lang         string
	IconBaseURL  string
}

// OpenMeteoRepository is a keyless provider. It resolves the city through the
// Open-Meteo geocoding API and then reads the current conditions for the
// first match, so one lookup costs two upstream requests.
type OpenMeteoRepository struct {
	opts       OpenMeteoOptions
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoRepository(opts OpenMeteoOptions, l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	if opts.BaseURL == "" {
		opts.BaseURL = OpenMeteoBaseURL
	}
	if opts.GeocodingURL == "" {
		opts.GeocodingURL = OpenMeteoGeocodingBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OpenMeteoRepository{
		opts:       opts,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type OpenMeteoGeocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type OpenMeteoCurrentResponse struct {
	Current *struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
		IsDay         int     `json:"is_day"`
	} `json:"current"`
}

type OpenMeteoErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func (o *OpenMeteoRepository) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	var weather models.Weather

	geoURL, err := withQuery(o.opts.GeocodingURL, url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {o.lang()},
		"format":   {"json"},
	})
	if err != nil {
		return weather, err
	}

	o.l.Info("making openmeteo geocoding request", map[string]any{"city": city})

	var geo OpenMeteoGeocodingResponse
	if err := o.getJSON(ctx, geoURL, &geo); err != nil {
		return weather, fmt.Errorf("geocoding failed: %w", err)
	}

	if len(geo.Results) == 0 {
		return weather, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}
	place := geo.Results[0]

	forecastURL, err := withQuery(o.opts.BaseURL, url.Values{
		"latitude":         {strconv.FormatFloat(place.Latitude, 'f', 4, 64)},
		"longitude":        {strconv.FormatFloat(place.Longitude, 'f', 4, 64)},
		"current":          {"temperature_2m,weather_code,is_day"},
		"temperature_unit": {"celsius"},
		"timezone":         {"auto"},
	})
	if err != nil {
		return weather, err
	}

	o.l.Info("making openmeteo API request", map[string]any{
		"city": place.Name,
		"lat":  place.Latitude,
		"lon":  place.Longitude,
	})

	var current OpenMeteoCurrentResponse
	if err := o.getJSON(ctx, forecastURL, &current); err != nil {
		return weather, err
	}

	if current.Current == nil {
		return weather, fmt.Errorf("no current weather data available for %s", place.Name)
	}

	condition := conditionFor(current.Current.WeatherCode)
	iconID := condition.icon + daySuffix(current.Current.IsDay)

	weather = models.Weather{
		LocationName:         place.Name,
		TemperatureCelsius:   current.Current.Temperature2m,
		ConditionDescription: condition.describe(o.lang()),
		IconID:               iconID,
		IconURL:              models.IconURLFor(o.opts.IconBaseURL, iconID),
	}

	return weather, nil
}

func (o *OpenMeteoRepository) lang() string {
	if o.opts.Lang == "" {
		return "es"
	}
	return o.opts.Lang
}

// getJSON performs one GET and decodes a 2xx body into out.
func (o *OpenMeteoRepository) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	o.l.Info("received openmeteo API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResp OpenMeteoErrorResponse
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, errorResp.Reason)
		}
		return fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

func withQuery(base string, values url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}

	q := u.Query()
	for k, v := range values {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func daySuffix(isDay int) string {
	if isDay == 0 {
		return "n"
	}
	return "d"
}

// wmoCondition maps a WMO weather interpretation code onto a description and
// the matching OpenWeatherMap icon family, so both providers render alike.
type wmoCondition struct {
	es   string
	en   string
	icon string
}

func (c wmoCondition) describe(lang string) string {
	if lang == "es" {
		return c.es
	}
	return c.en
}

var wmoConditions = map[int]wmoCondition{
	0:  {"cielo claro", "clear sky", "01"},
	1:  {"mayormente despejado", "mainly clear", "02"},
	2:  {"parcialmente nublado", "partly cloudy", "03"},
	3:  {"nublado", "overcast", "04"},
	45: {"niebla", "fog", "50"},
	48: {"niebla con escarcha", "depositing rime fog", "50"},
	51: {"llovizna ligera", "light drizzle", "09"},
	53: {"llovizna moderada", "moderate drizzle", "09"},
	55: {"llovizna intensa", "dense drizzle", "09"},
	56: {"llovizna helada ligera", "light freezing drizzle", "09"},
	57: {"llovizna helada intensa", "dense freezing drizzle", "09"},
	61: {"lluvia ligera", "slight rain", "10"},
	63: {"lluvia moderada", "moderate rain", "10"},
	65: {"lluvia intensa", "heavy rain", "10"},
	66: {"lluvia helada ligera", "light freezing rain", "13"},
	67: {"lluvia helada intensa", "heavy freezing rain", "13"},
	71: {"nevada ligera", "slight snow fall", "13"},
	73: {"nevada moderada", "moderate snow fall", "13"},
	75: {"nevada intensa", "heavy snow fall", "13"},
	77: {"granos de nieve", "snow grains", "13"},
	80: {"chubascos ligeros", "slight rain showers", "09"},
	81: {"chubascos moderados", "moderate rain showers", "09"},
	82: {"chubascos violentos", "violent rain showers", "09"},
	85: {"chubascos de nieve ligeros", "slight snow showers", "13"},
	86: {"chubascos de nieve intensos", "heavy snow showers", "13"},
	95: {"tormenta", "thunderstorm", "11"},
	96: {"tormenta con granizo ligero", "thunderstorm with slight hail", "11"},
	99: {"tormenta con granizo intenso", "thunderstorm with heavy hail", "11"},
}

func conditionFor(code int) wmoCondition {
	if c, ok := wmoConditions[code]; ok {
		return c
	}
	return wmoCondition{es: "desconocido", en: "unknown", icon: "03"}
}
