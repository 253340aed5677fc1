package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "weather-lookup/docs"
	"weather-lookup/internal/repositories"
	"weather-lookup/internal/services/weather"
	"weather-lookup/pkg/logger"
)

type routes struct {
	repo   repositories.WeatherRepository
	widget *weather.Controller
	l      *logger.Logger
}

// NewRouter mounts the lookup endpoints. repo serves stateless lookups; widget
// is the shared controller behind the /widget endpoints.
func NewRouter(
	app *fiber.App,
	repo repositories.WeatherRepository,
	widget *weather.Controller,
	l *logger.Logger,
) {
	r := &routes{
		repo:   repo,
		widget: widget,
		l:      l,
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/weather", r.handleWeatherCall)
	app.Get("/widget", r.handleWidgetState)
	app.Post("/widget/query", r.handleWidgetQuery)
}
