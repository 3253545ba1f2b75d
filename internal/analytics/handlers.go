package analytics

import (
	"context"
	"time"

	"backend-worktracker/internal/location"
	"backend-worktracker/internal/session"

	"github.com/gofiber/fiber/v2"
)

type SessionReader interface {
	History(ctx context.Context, userID string) ([]session.WorkSession, error)
}

type PointReader interface {
	All(ctx context.Context, userID string) ([]location.Point, error)
}

// Service loads a caller's accumulated history and hands it to the pure
// aggregation functions.
type Service struct {
	sessions SessionReader
	points   PointReader
	now      func() time.Time
}

func NewService(sessions SessionReader, points PointReader) *Service {
	return &Service{sessions: sessions, points: points, now: time.Now}
}

func (s *Service) load(ctx context.Context, userID string) ([]location.Point, []session.WorkSession, error) {
	points, err := s.points.All(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.sessions.History(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return points, sessions, nil
}

type routeResponse struct {
	Route
	TotalDistanceM float64 `json:"total_distance_m"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/route/:date", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		points, sessions, err := svc.load(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		route, ok := DailyRoute(c.Params("date"), points, sessions)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no data for date")
		}
		return c.JSON(routeResponse{Route: route, TotalDistanceM: TotalDistance(route.Points)})
	})

	r.Get("/today", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(TodaySessions(sessions, svc.now()))
	})

	r.Get("/earnings/monthly", authMiddleware, earningsHandler(svc, MonthlyEarnings))
	r.Get("/earnings/weekly", authMiddleware, earningsHandler(svc, WeeklyEarnings))

	r.Get("/earnings/projects", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(EarningsByProject(sessions))
	})

	r.Get("/summary", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(Summarize(sessions))
	})

	r.Get("/productivity/hourly", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(HourlyProductivity(sessions))
	})

	r.Get("/movement", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		points, sessions, err := svc.load(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(AnalyzeMovement(BuildRoutes(points, sessions)))
	})

	r.Get("/commute", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		points, sessions, err := svc.load(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(CommutingPattern(BuildRoutes(points, sessions)))
	})
}

func earningsHandler(svc *Service, group func([]session.WorkSession) []PeriodTotal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		sessions, err := svc.sessions.History(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(group(sessions))
	}
}
