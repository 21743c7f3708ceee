package shareroute

import (
	"context"
	"log"

	"backend-truckgps/internal/notify"
	"backend-truckgps/internal/user"

	"github.com/gofiber/fiber/v2"
)

// UserDirectory resolves owner display fields for the viewer projection.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (user.Profile, error)
}

func RegisterRoutes(r fiber.Router, svc *Service, users UserDirectory, notifier notify.Dispatcher, shareBaseURL string, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var in CreateInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		route, err := svc.Create(c.Context(), ownerID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":   true,
			"share_id":  route.ShareID,
			"share_url": shareURL(shareBaseURL, route.ShareID),
		})
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		routes, err := svc.ListByOwner(c.Context(), ownerID(c), Status(c.Query("status")))
		if err != nil {
			return respondError(c, err)
		}

		out := make([]fiber.Map, 0, len(routes))
		for _, route := range routes {
			out = append(out, fiber.Map{
				"share_id":   route.ShareID,
				"route_info": route.RouteInfo,
				"status":     route.Status,
				"privacy":    route.Privacy,
				"stats":      route.Stats,
				"share_url":  shareURL(shareBaseURL, route.ShareID),
				"created_at": route.CreatedAt,
				"expires_at": route.ExpiresAt,
			})
		}
		return c.JSON(out)
	})

	r.Get("/:shareId", func(c *fiber.Ctx) error {
		contact := c.Query("contact")

		route, err := svc.GetByShareID(c.Context(), c.Params("shareId"))
		if err != nil {
			return respondError(c, err)
		}
		if !CanView(&route, contact) {
			return respondError(c, ErrViewForbidden)
		}

		if err := svc.RecordView(c.Context(), route.ShareID, contact); err != nil {
			log.Printf("record view error: %v", err)
		}

		var driver *Driver
		if users != nil {
			if profile, err := users.Lookup(c.Context(), route.OwnerID); err == nil {
				driver = &Driver{Name: profile.Name, Company: profile.Company}
			}
		}
		return c.JSON(Project(&route, driver))
	})

	r.Put("/:shareId/location", authMiddleware, func(c *fiber.Ctx) error {
		var upd LocationUpdate
		if err := c.BodyParser(&upd); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		route, err := svc.UpdateLocation(c.Context(), c.Params("shareId"), ownerID(c), upd)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"last_update": route.UpdateSettings.LastUpdateAt,
		})
	})

	r.Put("/:shareId/status", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status Status `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		route, err := svc.SetStatus(c.Context(), c.Params("shareId"), ownerID(c), body.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "status": route.Status})
	})

	r.Put("/:shareId/privacy", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Privacy PrivacyInput `json:"privacy"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		privacy, err := svc.SetPrivacy(c.Context(), c.Params("shareId"), ownerID(c), body.Privacy)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "privacy": privacy})
	})

	r.Post("/:shareId/viewers", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Contact string `json:"contact"`
			Name    string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		shareID := c.Params("shareId")
		viewers, err := svc.AddViewer(c.Context(), shareID, ownerID(c), body.Contact, body.Name)
		if err != nil {
			return respondError(c, err)
		}

		if notifier != nil {
			msg := notify.ShareMessage(body.Contact, shareURL(shareBaseURL, shareID))
			if err := notifier.Send(c.Context(), msg); err != nil {
				log.Printf("share notification error: %v", err)
			}
		}
		return c.JSON(fiber.Map{"success": true, "allowed_viewers": viewers})
	})

	r.Delete("/:shareId", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("shareId"), ownerID(c)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}

func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func shareURL(base, shareID string) string {
	return base + "/" + shareID
}
