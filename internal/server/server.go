package server

import (
	"backend-worktracker/internal/analytics"
	"backend-worktracker/internal/auth"
	"backend-worktracker/internal/config"
	"backend-worktracker/internal/location"
	"backend-worktracker/internal/place"
	"backend-worktracker/internal/project"
	"backend-worktracker/internal/session"
	"backend-worktracker/internal/stream"
	"backend-worktracker/internal/syncdrive"
	"backend-worktracker/internal/tracker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Stream  *stream.Hub
	Tracker *tracker.Tracker
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	sessions := session.NewService(s.DB)
	points := location.NewService(s.DB)
	places := place.NewService(s.DB)
	projects := project.NewService(s.DB, s.Redis)
	sync := syncdrive.NewService(s.DB, sessions)

	var timers tracker.TimerStore
	if s.Redis != nil {
		timers = tracker.NewRedisTimerStore(s.Redis)
	}
	s.Tracker = tracker.New(sessions, points, places, projects, s.Stream, sync, timers)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	project.RegisterRoutes(s.App.Group("/projects"), projects, jwtMiddleware)
	session.RegisterRoutes(s.App.Group("/sessions"), sessions, jwtMiddleware)
	location.RegisterRoutes(s.App.Group("/locations"), points, jwtMiddleware)
	place.RegisterRoutes(s.App.Group("/places"), places, jwtMiddleware)
	tracker.RegisterRoutes(s.App.Group("/tracker"), s.Tracker, jwtMiddleware)
	analytics.RegisterRoutes(s.App.Group("/analytics"), analytics.NewService(sessions, points), jwtMiddleware)
	syncdrive.RegisterRoutes(s.App.Group("/sync"), sync, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
