package tracker

import (
	"backend-worktracker/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, tr *Tracker, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(tr.StartWork(c.Context(), userID))
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(tr.StopWork(c.Context(), userID))
	})

	r.Post("/location", authMiddleware, func(c *fiber.Ctx) error {
		var req geo.LatLng
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(tr.OnLocationUpdate(c.Context(), userID, req))
	})

	r.Put("/task", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			TaskDescription string `json:"task_description"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)
		tr.SetTask(c.Context(), userID, req.TaskDescription)
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/status", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(tr.Status(c.Context(), userID))
	})
}
