package server

import (
	"backend-truckgps/internal/auth"
	"backend-truckgps/internal/config"
	"backend-truckgps/internal/notify"
	"backend-truckgps/internal/routing"
	"backend-truckgps/internal/shareroute"
	"backend-truckgps/internal/stream"
	"backend-truckgps/internal/user"
	"backend-truckgps/internal/vehicle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Shared *shareroute.Service
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)
	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: hub,
		Shared: shareroute.NewService(db, hub),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	directory := user.NewDirectory(s.DB)
	notifier := notify.NewQueue(s.Redis)
	orsClient := routing.NewORSClient(s.Cfg.RoutingAPIURL, s.Cfg.RoutingAPIKey)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	shareroute.RegisterRoutes(s.App.Group("/shared-routes"), s.Shared, directory, notifier, s.Cfg.ShareBaseURL, jwtMiddleware)
	vehicle.RegisterRoutes(s.App.Group("/vehicles"), vehicle.NewService(s.DB), jwtMiddleware)
	routing.RegisterRoutes(s.App.Group("/routes"), orsClient, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
