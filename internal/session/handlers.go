package session

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)

		var (
			sessions []WorkSession
			err      error
		)
		if date := c.Query("date"); date != "" {
			sessions, err = svc.ByDate(c.Context(), userID, date)
		} else {
			sessions, err = svc.History(c.Context(), userID)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if sessions == nil {
			sessions = []WorkSession{}
		}
		return c.JSON(sessions)
	})
}
