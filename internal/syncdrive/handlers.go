package syncdrive

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		history, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		ok := svc.Upload(c.Context(), userID, history)
		return c.JSON(fiber.Map{"uploaded": ok, "sessions": len(history)})
	})

	r.Get("/download", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions := svc.Download(c.Context(), userID)
		if sessions == nil {
			return fiber.NewError(fiber.StatusNotFound, "no snapshot")
		}
		return c.JSON(sessions)
	})

	r.Post("/restore", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		count, ok, err := svc.Restore(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no snapshot")
		}
		return c.JSON(fiber.Map{"restored": count})
	})
}
