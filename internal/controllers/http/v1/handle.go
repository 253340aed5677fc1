package http

import (
	"github.com/gofiber/fiber/v2"

	"weather-lookup/internal/models"
	"weather-lookup/internal/services/weather"
)

// WeatherResponse represents the current weather for one city
type WeatherResponse struct {
	LocationName         string  `json:"location_name" example:"Madrid"`
	TemperatureCelsius   float64 `json:"temperature_celsius" example:"15.2"`
	ConditionDescription string  `json:"condition_description" example:"cielo claro"`
	IconID               string  `json:"icon_id" example:"01d"`
	IconURL              string  `json:"icon_url,omitempty" example:"https://openweathermap.org/img/wn/01d@2x.png"`
}

// StateResponse mirrors the widget bindings
type StateResponse struct {
	Query        string           `json:"query" example:"Madrid"`
	Result       *WeatherResponse `json:"result,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty" example:"Ciudad no encontrada. Intenta otra."`
	Busy         bool             `json:"busy" example:"false"`
}

// QueryRequest is the widget submit payload
type QueryRequest struct {
	City string `json:"city" form:"city" example:"Madrid"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Ciudad no encontrada. Intenta otra."`
}

func toWeatherResponse(w *models.Weather) *WeatherResponse {
	if w == nil {
		return nil
	}
	return &WeatherResponse{
		LocationName:         w.LocationName,
		TemperatureCelsius:   w.TemperatureCelsius,
		ConditionDescription: w.ConditionDescription,
		IconID:               w.IconID,
		IconURL:              w.IconURL,
	}
}

func toStateResponse(s models.State) StateResponse {
	return StateResponse{
		Query:        s.Query,
		Result:       toWeatherResponse(s.Result),
		ErrorMessage: s.ErrorMessage,
		Busy:         s.Busy,
	}
}

func statusFor(kind models.FailureKind) int {
	switch kind {
	case models.FailureValidation:
		return fiber.StatusBadRequest
	case models.FailureNotFound:
		return fiber.StatusNotFound
	case models.FailureTransient:
		return fiber.StatusBadGateway
	}
	return fiber.StatusOK
}

// GetWeather godoc
// @Summary Get current weather
// @Description Looks up the current weather for a city name
// @Tags Weather
// @Produce json
// @Param city query string true "City name" example(Madrid)
// @Success 200 {object} WeatherResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Missing city"
// @Failure 404 {object} ErrorResponse "City not found"
// @Failure 502 {object} ErrorResponse "Provider unreachable or failing"
// @Router /weather [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/weather?city=Madrid"
func (r *routes) handleWeatherCall(c *fiber.Ctx) error {
	lookup := weather.NewController(r.repo, r.l)
	lookup.FetchWeather(c.UserContext(), c.Query("city"))

	s := lookup.State()
	if s.Failure != models.FailureNone {
		return c.Status(statusFor(s.Failure)).JSON(ErrorResponse{
			Error: s.ErrorMessage,
		})
	}

	return c.JSON(toWeatherResponse(s.Result))
}

// GetWidgetState godoc
// @Summary Get widget state
// @Description Returns the query text, result, error message and busy flag of the shared widget
// @Tags Widget
// @Produce json
// @Success 200 {object} StateResponse
// @Router /widget [get]
func (r *routes) handleWidgetState(c *fiber.Ctx) error {
	return c.JSON(toStateResponse(r.widget.State()))
}

// SubmitWidgetQuery godoc
// @Summary Submit a city to the widget
// @Description Runs a lookup on the shared widget and returns its resulting state. The outcome, including failures, is reported inside the state.
// @Tags Widget
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body QueryRequest true "City to look up"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse "Unreadable body"
// @Router /widget/query [post]
func (r *routes) handleWidgetQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		r.l.Warning("invalid widget query body", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	r.widget.FetchWeather(c.UserContext(), req.City)

	return c.JSON(toStateResponse(r.widget.State()))
}
