package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/shelf/pkg/corpus"
)

// Server is the API server exposing insert and search over HTTP.
type Server struct {
	config   Config
	searcher *corpus.Searcher
	inserter *corpus.Inserter
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The searcher and inserter are
// injected so the CLI and tests can share their construction.
func NewServer(config Config, searcher *corpus.Searcher, inserter *corpus.Inserter, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		searcher: searcher,
		inserter: inserter,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/v1/search", s.handleSearch)
	app.Post("/v1/insert", s.handleInsert)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}
