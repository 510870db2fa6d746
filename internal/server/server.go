package server

import (
	"time"

	"backend-trollfeed/internal/admin"
	"backend-trollfeed/internal/config"
	"backend-trollfeed/internal/db"
	"backend-trollfeed/internal/feed"
	"backend-trollfeed/internal/genai"
	"backend-trollfeed/internal/ratelimit"
	"backend-trollfeed/internal/stream"
	"backend-trollfeed/internal/thread"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// Submissions carry base64 data URIs inline, so the default 4MB body
// limit is far too small.
const bodyLimit = 25 * 1024 * 1024

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, querier db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{BodyLimit: bodyLimit})
	app.Use(recover.New())
	app.Use(logger.New())
	// the front end is served from another origin
	app.Use(cors.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     querier,
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

	limiter := ratelimit.New(
		time.Duration(s.Cfg.RateLimitWindowMin)*time.Minute,
		s.Cfg.RateLimitMax,
	)
	threads := thread.NewStore(s.Redis, time.Duration(s.Cfg.ThreadTTLHours)*time.Hour)
	guard := admin.NewGuard(s.Cfg)

	feedSvc := feed.NewService(s.DB, genai.NewClient(s.Cfg), limiter, threads, s.Stream)
	feed.RegisterRoutes(s.App.Group("/api"), feedSvc)

	adminGroup := s.App.Group("/api/admin")
	admin.RegisterRoutes(adminGroup, admin.NewService(s.DB), guard)
	stream.RegisterRoutes(adminGroup.Group("/stream", guard.Middleware()), s.Stream)
}
