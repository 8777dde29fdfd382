package boundary

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
	"github.com/LightnXd/Zus-Chatbot-Backend/agent/orchestrator"
)

// Config tunes the HTTP surface, using spec.md §6's literal env var names
// for the two it documents (PORT, CORS_ORIGINS).
type Config struct {
	Port               string `envconfig:"PORT" default:"8000"`
	CorsAllowedOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	BodyLimitBytes     int    `envconfig:"BODY_LIMIT_BYTES" default:"1048576"`
}

func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = "8000"
	}
	if c.CorsAllowedOrigins == "" {
		c.CorsAllowedOrigins = "*"
	}
	if c.BodyLimitBytes <= 0 {
		c.BodyLimitBytes = 1 << 20
	}
	return c
}

// Server wraps a Fiber app over the Orchestrator and the read-side
// components the debug/inspection endpoints expose directly.
type Server struct {
	app      *fiber.App
	cfg      Config
	orch     *orchestrator.Orchestrator
	products domain.ProductIndex
	outlets  domain.OutletGate
	calc     domain.Calculator
	sessions domain.SessionStore
}

func New(
	cfg Config,
	orch *orchestrator.Orchestrator,
	products domain.ProductIndex,
	outlets domain.OutletGate,
	calc domain.Calculator,
	sessions domain.SessionStore,
) *Server {
	cfg = cfg.withDefaults()

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitBytes,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsAllowedOrigins,
		AllowCredentials: cfg.CorsAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, OPTIONS",
	}))

	s := &Server{
		app:      app,
		cfg:      cfg,
		orch:     orch,
		products: products,
		outlets:  outlets,
		calc:     calc,
		sessions: sessions,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")
	api.Post("/chat", s.handleChat)
	api.Get("/stats", s.handleStats)

	s.app.Get("/products", s.handleProducts)
	s.app.Get("/outlets", s.handleOutlets)
	s.app.Get("/calculate", s.handleCalculate)
}

// Run starts the Fiber app and blocks until it stops or fails.
func (s *Server) Run() error {
	log.Info().Str("port", s.cfg.Port).Msg("boundary: listening")
	return s.app.Listen(":" + s.cfg.Port)
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func newSessionID() string {
	return uuid.NewString()
}
