// Package handler holds the shared contract for web handler services.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-ldapauth/go-ldapauth/internal/config"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}
