package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-lookup/internal/models"
	"weather-lookup/pkg/logger"
)

const (
	OpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"
)

type OpenWeatherMapOptions struct {
	BaseURL     string
	APIKey      string
	Lang        string
	IconBaseURL string
}

type OpenWeatherMapRepository struct {
	opts       OpenWeatherMapOptions
	httpClient HTTPClient
	l          *logger.Logger
}

// NewOpenWeatherMapRepository does not insist on an API key: without one the
// provider answers 401, which callers see as an ordinary lookup failure.
func NewOpenWeatherMapRepository(opts OpenWeatherMapOptions, l *logger.Logger, httpClient HTTPClient) *OpenWeatherMapRepository {
	if opts.BaseURL == "" {
		opts.BaseURL = OpenWeatherMapBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OpenWeatherMapRepository{
		opts:       opts,
		httpClient: httpClient,
		l:          l,
	}
}

func (w *OpenWeatherMapRepository) Name() string {
	return "openweathermap"
}

type OpenWeatherMapResponse struct {
	Name string `json:"name"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

// OpenWeatherMapError is the body sent with non-2xx answers. Cod is a number
// or a string depending on the endpoint.
type OpenWeatherMapError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

func (w *OpenWeatherMapRepository) requestURL(city string) (string, error) {
	u, err := url.Parse(w.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", w.opts.BaseURL, err)
	}

	q := u.Query()
	q.Set("q", city)
	q.Set("appid", w.opts.APIKey)
	q.Set("units", metricUnits)
	if w.opts.Lang != "" {
		q.Set("lang", w.opts.Lang)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (w *OpenWeatherMapRepository) FetchCurrent(ctx context.Context, city string) (models.Weather, error) {
	var weather models.Weather

	reqURL, err := w.requestURL(city)
	if err != nil {
		return weather, err
	}

	w.l.Info("making openweathermap API request", map[string]any{
		"city": city,
		"lang": w.opts.Lang,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return weather, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return weather, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	w.l.Info("received openweathermap API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return weather, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return weather, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr OpenWeatherMapError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return weather, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return weather, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response OpenWeatherMapResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return weather, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if response.Main == nil || len(response.Weather) == 0 {
		return weather, fmt.Errorf("incomplete weather payload for %s", city)
	}

	weather = models.Weather{
		LocationName:         response.Name,
		TemperatureCelsius:   response.Main.Temp,
		ConditionDescription: response.Weather[0].Description,
		IconID:               response.Weather[0].Icon,
		IconURL:              models.IconURLFor(w.opts.IconBaseURL, response.Weather[0].Icon),
	}

	w.l.Debug("parsed API response", map[string]any{
		"location": weather.LocationName,
		"temp":     weather.TemperatureCelsius,
	})

	return weather, nil
}
