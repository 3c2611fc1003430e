// Package server exposes the simulation engine over HTTP: start and cancel
// commands, polled event streams, result tables and Prometheus metrics.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server wires the run registry to a fiber app.
type Server struct {
	app  *fiber.App
	runs *Registry
}

// New builds the HTTP app. gatherer backs the /metrics endpoint.
func New(runs *Registry, gatherer prometheus.Gatherer) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "gambler-sim",
		DisableStartupMessage: true,
	})
	s := &Server{app: app, runs: runs}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/runs")
	api.Post("/", s.startRun)
	api.Get("/", s.listRuns)
	api.Get("/:id", s.getRun)
	api.Get("/:id/events", s.runEvents)
	api.Delete("/:id", s.cancelRun)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	logrus.Infof("Listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests, cancels live runs and waits for them
// to emit their terminal events.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.runs.CancelAll()
	s.runs.Wait()
	return err
}
