package shareroute

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIError is a request failure with a stable machine-readable code.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

var (
	ErrRouteNotFound      = &APIError{fiber.StatusNotFound, "not_found", "shared route not found"}
	ErrRouteNotActive     = &APIError{fiber.StatusNotFound, "not_found", "shared route not found or not active"}
	ErrIncompleteRoute    = &APIError{fiber.StatusBadRequest, "route_info_incomplete", "route info requires origin and destination"}
	ErrInvalidCoordinates = &APIError{fiber.StatusBadRequest, "invalid_coordinates", "valid coordinates required"}
	ErrInvalidStatus      = &APIError{fiber.StatusBadRequest, "invalid_status", "invalid status"}
	ErrStatusFinal        = &APIError{fiber.StatusBadRequest, "status_final", "status can no longer be changed"}
	ErrDuplicateViewer    = &APIError{fiber.StatusBadRequest, "duplicate_viewer", "this contact already has access"}
	ErrContactRequired    = &APIError{fiber.StatusBadRequest, "contact_required", "contact required"}
	ErrViewForbidden      = &APIError{fiber.StatusForbidden, "forbidden", "no permission to view this route"}
	ErrIDExhausted        = &APIError{fiber.StatusInternalServerError, "share_id_exhausted", "could not generate a unique share id"}
)

func respondError(c *fiber.Ctx, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"error": apiErr.Message,
			"code":  apiErr.Code,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
		"code":  "internal",
	})
}
