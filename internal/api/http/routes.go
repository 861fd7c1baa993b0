package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/address-weather/internal/weather"
)

var validate = validator.New()

// now is replaced in tests.
var now = time.Now

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseAddressQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		forecast, err := service.ResolveForecast(c.UserContext(), q.Address)
		if err != nil {
			return failure(err)
		}

		return c.JSON(fiber.Map{
			"forecast": forecast,
			"theme":    Theme(now().In(forecastZone(forecast))),
		})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		q, err := parseAddressQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, err := service.ResolveLocation(c.UserContext(), q.Address)
		if err != nil {
			return failure(err)
		}

		return c.JSON(loc)
	})
}

// addressQuery holds the free-form address of a request.
type addressQuery struct {
	Address string `validate:"required,max=512"`
}

func parseAddressQuery(c *fiber.Ctx) (addressQuery, error) {
	q := addressQuery{Address: c.Query("address")}
	if err := validate.Struct(q); err != nil {
		return q, errors.New("address query parameter is required")
	}
	return q, nil
}

// ErrorHandler is the centralized error response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// failure maps a pipeline failure to an HTTP error carrying its reason.
func failure(err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, weather.ErrLocationNotFound), errors.Is(err, weather.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, weather.ErrGeocodeFailure), errors.Is(err, weather.ErrForecastFailure):
		code = fiber.StatusBadGateway
	}
	return fiber.NewError(code, weather.Reason(err))
}
