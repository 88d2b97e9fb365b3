// Package health serves the load balancer liveness endpoint.
package health

import (
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"

	"github.com/go-ldapauth/go-ldapauth/internal/config"
)

const (
	// Path is the path to the liveness check.
	Path = "/checkalive"
)

// Service is the liveness handler service.
type Service struct {
	alive *atomic.Bool
}

// Handler is the liveness handler.
var Handler = Service{}

// Init initializes the liveness handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, alive *atomic.Bool) error {
	if app == nil || cfg == nil || alive == nil {
		return errors.New("app, cfg or alive is nil")
	}

	s.alive = alive

	app.Get(Path, s.Get)

	return nil
}

// Get reports liveness. During graceful shutdown it returns 503 so the
// load balancer drains this instance.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
