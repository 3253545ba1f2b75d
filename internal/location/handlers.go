package location

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/points", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)

		var (
			points []Point
			err    error
		)
		if date := c.Query("date"); date != "" {
			day, parseErr := time.ParseInLocation("2006-01-02", date, time.Local)
			if parseErr != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be yyyy-MM-dd")
			}
			from := day.UnixMilli()
			to := day.AddDate(0, 0, 1).UnixMilli()
			points, err = svc.ByRange(c.Context(), userID, from, to)
		} else {
			points, err = svc.All(c.Context(), userID)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if points == nil {
			points = []Point{}
		}
		return c.JSON(points)
	})
}
