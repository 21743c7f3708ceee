package routing

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, provider Provider, authMiddleware fiber.Handler) {
	r.Post("/calculate", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Origin        *Coordinates `json:"origin"`
			Destination   *Coordinates `json:"destination"`
			VehicleParams TruckParams  `json:"vehicle_params"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.Origin == nil || body.Destination == nil {
			return fiber.NewError(fiber.StatusBadRequest, "origin and destination required")
		}

		est, err := provider.CalculateTruckRoute(c.Context(), *body.Origin, *body.Destination, body.VehicleParams)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		return c.JSON(fiber.Map{
			"estimated_distance_km":      math.Round(est.DistanceKm*100) / 100,
			"estimated_duration_minutes": math.Round(est.DurationMinutes),
			"geometry":                   est.Geometry,
			"summary": fiber.Map{
				"distance_text": fmt.Sprintf("%.0f km", est.DistanceKm),
				"duration_text": formatDuration(est.DurationMinutes),
			},
		})
	})
}

func formatDuration(minutes float64) string {
	h := int(minutes) / 60
	m := int(minutes) % 60
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh %02dmin", h, m)
}
