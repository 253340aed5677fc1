package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"weather-lookup/config"
	"weather-lookup/internal/models"
	"weather-lookup/pkg/logger"
)

// ErrCityNotFound is returned when the provider does not know the city.
// Every other failure is transient from the caller's point of view.
var ErrCityNotFound = errors.New("city not found")

const (
	metricUnits = "metric"

	// maxResponseBytes caps provider bodies; real answers are a few KiB.
	maxResponseBytes = 1 << 20
)

type WeatherRepository interface {
	Name() string
	FetchCurrent(ctx context.Context, city string) (models.Weather, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client with the given timeout in seconds; zero keeps
// the transport defaults.
func NewHTTPClient(timeoutSeconds int) *http.Client {
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}

func InitWeatherRepository(cfg *config.Config, l *logger.Logger) (WeatherRepository, error) {
	httpClient := NewHTTPClient(cfg.Weather.Timeout)
	w := cfg.Weather

	switch w.Provider {
	case "", "openweathermap":
		return NewOpenWeatherMapRepository(OpenWeatherMapOptions{
			BaseURL:     w.BaseURL,
			APIKey:      w.APIKey,
			Lang:        w.Lang,
			IconBaseURL: w.IconBaseURL,
		}, l, httpClient), nil
	case "open-meteo":
		return NewOpenMeteoRepository(OpenMeteoOptions{
			BaseURL:      w.BaseURL,
			GeocodingURL: w.GeocodingURL,
			Lang:         w.Lang,
			IconBaseURL:  w.IconBaseURL,
		}, l, httpClient), nil
	}

	return nil, fmt.Errorf("unknown weather provider %q", w.Provider)
}
